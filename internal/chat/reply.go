// Package chat holds the transport-neutral shape of outbound messages.
package chat

// Button is an inline choice; Data comes back as a choice input when pressed.
type Button struct {
	Text string `json:"text"`
	Data string `json:"data"`
}

// Reply is one outbound message.
type Reply struct {
	Text string `json:"text"`
	// PhotoID, when set, sends the photo with Text as caption.
	PhotoID  string     `json:"photo_id,omitempty"`
	Keyboard [][]Button `json:"keyboard,omitempty"`
	// RequestLocation asks the client to show a share-location control.
	RequestLocation bool `json:"request_location,omitempty"`
}

// IsZero reports whether nothing would be sent.
func (r Reply) IsZero() bool { return r.Text == "" && r.PhotoID == "" }

// Row builds one keyboard row.
func Row(buttons ...Button) []Button { return buttons }

// Grid lays buttons out, perRow to a row.
func Grid(buttons []Button, perRow int) [][]Button {
	if perRow <= 0 {
		perRow = 1
	}
	var rows [][]Button
	for i := 0; i < len(buttons); i += perRow {
		end := i + perRow
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, buttons[i:end])
	}
	return rows
}
