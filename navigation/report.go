package navigation

// Report is the host-side verdict on a document text.
type Report struct {
	Valid    bool      `json:"valid"`
	Problems []Problem `json:"problems,omitempty"`
	Stats    *Stats    `json:"stats,omitempty"`
}

// Evaluate parses, decodes and checks text. Stats are present whenever the
// text decodes, even if semantic problems remain.
func Evaluate(text string) Report {
	doc, err := Decode(text)
	if err != nil {
		return Report{Problems: []Problem{{Message: err.Error()}}}
	}

	cats, items := doc.Count()
	problems := Check(doc)
	return Report{
		Valid:    len(problems) == 0,
		Problems: problems,
		Stats:    &Stats{Categories: cats, Items: items, Size: len(text)},
	}
}
