package jsondoc

import "testing"

func TestFormat_TwoSpaceIndent(t *testing.T) {
	got, err := Format(`{"a":1}`)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if want := "{\n  \"a\": 1\n}"; got != want {
		t.Fatalf("Format=%q, want %q", got, want)
	}
}

func TestFormat_NestedAndEmpty(t *testing.T) {
	got, err := Format(`{"list":[1,{"x":[]},{}],"s":"v"}`)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	want := "{\n" +
		"  \"list\": [\n" +
		"    1,\n" +
		"    {\n" +
		"      \"x\": []\n" +
		"    },\n" +
		"    {}\n" +
		"  ],\n" +
		"  \"s\": \"v\"\n" +
		"}"
	if got != want {
		t.Fatalf("Format=\n%s\nwant\n%s", got, want)
	}
}

func TestFormat_PreservesKeyOrder(t *testing.T) {
	got, err := Format(`{"z":1,"a":2,"m":3}`)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if want := "{\n  \"z\": 1,\n  \"a\": 2,\n  \"m\": 3\n}"; got != want {
		t.Fatalf("Format=%q, want %q", got, want)
	}
}

func TestFormat_DuplicateKeyKeepsFirstPositionLastValue(t *testing.T) {
	got, err := Compact(`{"a":1,"b":2,"a":3}`)
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}
	if want := `{"a":3,"b":2}`; got != want {
		t.Fatalf("Compact=%q, want %q", got, want)
	}
}

func TestFormat_Idempotent(t *testing.T) {
	for _, text := range []string{
		`{"a":1}`,
		`[1.50, 1e21, 1E-7, "é\n", {"k": [true, false, null]}]`,
		`{"navigationItems":[{"id":"c","title":"T","items":[]}]}`,
		`"top"`,
		`{}`,
	} {
		once, err := Format(text)
		if err != nil {
			t.Fatalf("Format(%q): %v", text, err)
		}
		twice, err := Format(once)
		if err != nil {
			t.Fatalf("Format(Format(%q)): %v", text, err)
		}
		if once != twice {
			t.Fatalf("not idempotent:\n%s\n---\n%s", once, twice)
		}
	}
}

func TestFormat_InvalidReturnsError(t *testing.T) {
	if _, err := Format(`{"a":`); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := Compact(`nope`); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFormatNumber_MatchesJavaScript(t *testing.T) {
	cases := map[string]string{
		"0":                     "0",
		"-0":                    "0",
		"1.0":                   "1",
		"1.50":                  "1.5",
		"100":                   "100",
		"-42":                   "-42",
		"1e3":                   "1000",
		"1e21":                  "1e+21",
		"123456789012345678901": "123456789012345680000",
		"0.000001":              "0.000001",
		"1E-7":                  "1e-7",
		"1.5e-10":               "1.5e-10",
		"2.5E+25":               "2.5e+25",
		"0.1":                   "0.1",
		"1e400":                 "null",
	}
	for lit, want := range cases {
		if got := FormatNumber(lit); got != want {
			t.Fatalf("FormatNumber(%q)=%q, want %q", lit, got, want)
		}
	}
}

func TestQuoteString_MinimalEscaping(t *testing.T) {
	cases := map[string]string{
		"plain":      `"plain"`,
		`q"b\`:       `"q\"b\\"`,
		"a\nb\tc":    `"a\nb\tc"`,
		"\x01":       `"\u0001"`,
		"\x1f":       `"\u001f"`,
		"<a&b>":      `"<a&b>"`,
		"café":  "\"café\"",
		"\b\f\r":     `"\b\f\r"`,
		"  sep": "\"  sep\"",
	}
	for in, want := range cases {
		if got := QuoteString(in); got != want {
			t.Fatalf("QuoteString(%q)=%s, want %s", in, got, want)
		}
	}
}

func TestFormat_UnescapesAndReescapesStrings(t *testing.T) {
	got, err := Compact(`["A\/é", "😀"]`)
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}
	if want := "[\"A/é\",\"\U0001F600\"]"; got != want {
		t.Fatalf("Compact=%q, want %q", got, want)
	}
}

func TestFormat_LoneSurrogatesSurvive(t *testing.T) {
	cases := []struct{ in, want string }{
		{`"\ud800"`, `"\ud800"`},
		{`{"a":"\ud800x"}`, "{\n  \"a\": \"\\ud800x\"\n}"},
		{`["\uDC00"]`, "[\n  \"\\udc00\"\n]"},
		{`{"\udfff":"\ud83d\ude00\ud83d"}`, "{\n  \"\\udfff\": \"😀\\ud83d\"\n}"},
	}
	for _, tc := range cases {
		if ok, errs := Validate(tc.in); !ok {
			t.Fatalf("Validate(%q)=%v", tc.in, errs)
		}
		got, err := Format(tc.in)
		if err != nil {
			t.Fatalf("Format(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Format(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormat_EscapedKeysDecodeOnce(t *testing.T) {
	got, err := Format(`{"a\\nb":"\\u0041","t\tab":1}`)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if want := "{\n  \"a\\\\nb\": \"\\\\u0041\",\n  \"t\\tab\": 1\n}"; got != want {
		t.Fatalf("Format=%q, want %q", got, want)
	}
}

func TestQuoteString_InvalidBytesBecomeReplacement(t *testing.T) {
	if got, want := QuoteString("a\xffb"), "\"a\uFFFDb\""; got != want {
		t.Fatalf("QuoteString=%q, want %q", got, want)
	}
}
