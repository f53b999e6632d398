package sos

type Contact struct {
	ID       string   `json:"id,omitempty"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Numbers  []string `json:"numbers"`
}

type ContactRequest struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Numbers  []string `json:"numbers"`
}

// Directory is what the SOS screen lists: helplines first, then the user's own.
type Directory struct {
	National []Contact `json:"national"`
	Personal []Contact `json:"personal"`
}

var national = []Contact{
	{Title: "All-in-one Emergency", Subtitle: "Police / Fire / Ambulance", Numbers: []string{"112"}},
	{Title: "Police (Delhi)", Numbers: []string{"100"}},
	{Title: "Fire Services (Delhi)", Numbers: []string{"101"}},
	{Title: "Ambulance / Medical (Delhi)", Numbers: []string{"102"}},
	{Title: "24x7 Ambulance (National)", Numbers: []string{"108"}},
	{Title: "State Disaster Helpline (All India)", Numbers: []string{"1070"}},
	{Title: "State Disaster Management / Rescue & Relief (New Delhi)", Numbers: []string{"011-23412666", "011-23412667"}},
	{Title: "Disaster Control Room (Delhi)", Numbers: []string{"011-23392000"}},
	{Title: "Chief Minister Helpline (Delhi)", Numbers: []string{"011-23392000", "1912"}},
}

// National returns a copy of the fixed helpline list.
func National() []Contact {
	out := make([]Contact, len(national))
	for i, c := range national {
		c.Numbers = append([]string(nil), c.Numbers...)
		out[i] = c
	}
	return out
}
