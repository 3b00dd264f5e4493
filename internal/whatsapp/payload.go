package whatsapp

// Wire shapes for the Meta Cloud API messages endpoint.

type textPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

type templatePayload struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Template         templateBody `json:"template"`
}

type templateBody struct {
	Name       string              `json:"name"`
	Language   templateLanguage    `json:"language"`
	Components []templateComponent `json:"components"`
}

type templateLanguage struct {
	Code string `json:"code"`
}

type templateComponent struct {
	Type       string              `json:"type"`
	Parameters []templateParameter `json:"parameters"`
}

type templateParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func newTextPayload(to, body string) textPayload {
	return textPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: body},
	}
}

func newTemplatePayload(to, name, language string, params []string) templatePayload {
	parameters := make([]templateParameter, len(params))
	for i, p := range params {
		parameters[i] = templateParameter{Type: "text", Text: p}
	}

	return templatePayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "template",
		Template: templateBody{
			Name:     name,
			Language: templateLanguage{Code: language},
			Components: []templateComponent{
				{Type: "body", Parameters: parameters},
			},
		},
	}
}

// graphResponse is the subset of the Cloud API response the client reads.
type graphResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}
