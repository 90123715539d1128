package gemini

import "encoding/json"

// Part is one piece of content. Only text parts are sent.
type Part struct {
	Text string `json:"text"`
}

// Content is a single turn in a generateContent request.
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// GenerateRequest is the generateContent request body.
type GenerateRequest struct {
	Contents []Content `json:"contents"`
}

// NewUserRequest wraps prompt as a single user turn.
func NewUserRequest(prompt string) GenerateRequest {
	return GenerateRequest{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: prompt}}}},
	}
}

// GenerateResponse is the subset of the generateContent response the relay
// reads. Decoding never fails on shape: a link that is absent or of the
// wrong JSON type is left empty and ExtractText falls back.
type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is one generated answer.
type Candidate struct {
	Content *CandidateContent `json:"content"`
}

// CandidateContent holds the parts of a candidate.
type CandidateContent struct {
	Role  string          `json:"role"`
	Parts []CandidatePart `json:"parts"`
}

// CandidatePart is one part of a candidate.
type CandidatePart struct {
	Text *string `json:"text"`
}

// FallbackText is returned when a successful response has no usable text.
const FallbackText = "Could not process the request."

// ExtractText returns the first candidate's first text part. A missing
// candidate, content, part or text, or an empty text, yields FallbackText.
func ExtractText(resp *GenerateResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return FallbackText
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return FallbackText
	}
	text := content.Parts[0].Text
	if text == nil || *text == "" {
		return FallbackText
	}
	return *text
}

func (r *GenerateResponse) UnmarshalJSON(b []byte) error {
	*r = GenerateResponse{}
	fields, ok := object(b)
	if !ok {
		return nil
	}
	for _, raw := range array(fields["candidates"]) {
		var c Candidate
		if err := json.Unmarshal(raw, &c); err != nil {
			return err
		}
		r.Candidates = append(r.Candidates, c)
	}
	return nil
}

func (c *Candidate) UnmarshalJSON(b []byte) error {
	*c = Candidate{}
	fields, ok := object(b)
	if !ok {
		return nil
	}
	if _, ok := object(fields["content"]); !ok {
		return nil
	}
	c.Content = &CandidateContent{}
	return json.Unmarshal(fields["content"], c.Content)
}

func (cc *CandidateContent) UnmarshalJSON(b []byte) error {
	*cc = CandidateContent{}
	fields, ok := object(b)
	if !ok {
		return nil
	}
	if role, ok := str(fields["role"]); ok {
		cc.Role = role
	}
	for _, raw := range array(fields["parts"]) {
		var p CandidatePart
		if err := json.Unmarshal(raw, &p); err != nil {
			return err
		}
		cc.Parts = append(cc.Parts, p)
	}
	return nil
}

func (p *CandidatePart) UnmarshalJSON(b []byte) error {
	*p = CandidatePart{}
	fields, ok := object(b)
	if !ok {
		return nil
	}
	if text, ok := str(fields["text"]); ok {
		p.Text = &text
	}
	return nil
}

// object decodes b as a JSON object; null and other types report false.
func object(b json.RawMessage) (map[string]json.RawMessage, bool) {
	if len(b) == 0 {
		return nil, false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil || m == nil {
		return nil, false
	}
	return m, true
}

func array(b json.RawMessage) []json.RawMessage {
	if len(b) == 0 {
		return nil
	}
	var a []json.RawMessage
	if err := json.Unmarshal(b, &a); err != nil {
		return nil
	}
	return a
}

func str(b json.RawMessage) (string, bool) {
	if len(b) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return "", false
	}
	return s, true
}
