package analysis

// Wire types of the generateContent REST method.

const (
	typeObject = "OBJECT"
	typeString = "STRING"
	typeArray  = "ARRAY"
)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Items       *schema            `json:"items,omitempty"`
	Properties  map[string]*schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	ResponseSchema   *schema `json:"responseSchema"`
}

type generateRequest struct {
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
	Error      *apiError   `json:"error,omitempty"`
}

func (r *generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	text := ""
	for _, p := range r.Candidates[0].Content.Parts {
		text += p.Text
	}
	return text
}

func stringArray(description string) *schema {
	return &schema{
		Type:        typeArray,
		Items:       &schema{Type: typeString},
		Description: description,
	}
}

var responseSchema = &schema{
	Type: typeObject,
	Properties: map[string]*schema{
		"summary":         {Type: typeString, Description: "Genel durum özeti"},
		"strengths":       stringArray("Sınıfın başarılı olduğu alanlar"),
		"weaknesses":      stringArray("Geliştirilmesi gereken noktalar"),
		"recommendations": stringArray("Öğretmen için 3 adet aksiyon önerisi"),
	},
	Required: []string{"summary", "strengths", "weaknesses", "recommendations"},
}
