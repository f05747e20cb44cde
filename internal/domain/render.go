package domain

// NoHistoryText is shown instead of an empty history list.
const NoHistoryText = "No calculations yet"

// RenderedEntry is a history entry formatted for display.
type RenderedEntry struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
}

// RenderModel is the read-only projection of a State into display strings.
type RenderModel struct {
	Main      string          `json:"main"`
	Secondary string          `json:"secondary"`
	History   []RenderedEntry `json:"history"`

	// Placeholder is NoHistoryText when History is empty, otherwise "".
	Placeholder string `json:"placeholder"`

	// Memory is true when the memory register holds a non-zero value.
	Memory bool `json:"memory"`
}

// Render projects s into a RenderModel. It does not modify s.
func Render(s *State) RenderModel {
	m := RenderModel{
		Main:    s.display,
		History: []RenderedEntry{},
		Memory:  s.memory != 0,
	}
	if s.hasFirst && s.operator != OpNone {
		m.Secondary = FormatNumber(s.first) + " " + s.operator.Symbol()
	}
	for _, e := range s.history.entries {
		m.History = append(m.History, RenderedEntry{
			Expression: e.Expression,
			Result:     e.Result.String(),
		})
	}
	if len(m.History) == 0 {
		m.Placeholder = NoHistoryText
	}
	return m
}
