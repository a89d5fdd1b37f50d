package jsondoc

import "testing"

func FuzzFormat(f *testing.F) {
	seeds := []string{
		`{}`,
		`[]`,
		`{"a":1}`,
		`{"navigationItems":[{"id":"dev","title":"Dev","items":[{"title":"Go","href":"https://go.dev"}]}]}`,
		`"\ud800"`,
		`{"\udc00":"\ud83d\ude00\ud83d"}`,
		`{"a\\nb":"\\u0041"}`,
		`[1e400,-0,0.1,1E-7,123456789012345678901]`,
		`{"k":1,"k":2}`,
		"  [ true , null , \"\\t\" ]  ",
		`{"a":`,
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, text string) {
		if ok, _ := Validate(text); !ok {
			if _, err := Format(text); err == nil {
				t.Fatalf("Format accepted text Validate rejected: %q", text)
			}
			return
		}
		once, err := Format(text)
		if err != nil {
			t.Fatalf("Format(%q) on valid text: %v", text, err)
		}
		if ok, errs := Validate(once); !ok {
			t.Fatalf("Format(%q)=%q is not valid: %v", text, once, errs)
		}
		twice, err := Format(once)
		if err != nil {
			t.Fatalf("Format(%q): %v", once, err)
		}
		if twice != once {
			t.Fatalf("Format not idempotent:\n%q\n%q", once, twice)
		}
		if _, err := Compact(text); err != nil {
			t.Fatalf("Compact(%q) on valid text: %v", text, err)
		}
	})
}
