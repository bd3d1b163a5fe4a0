package render

import theme "github.com/goliatone/go-theme"

// RenderOptions describe per-request data renderers can use to customise
// output without touching the view pipeline.
type RenderOptions struct {
	// Theme carries resolved go-theme configuration (tokens, CSS variables,
	// partial overrides). Nil means the renderer's built-in chrome.
	Theme *theme.RendererConfig
	// Hidden fields are emitted alongside the visible controls, typically a
	// CSRF token. See the submission helpers.
	Hidden map[string]string
	// BasePath prefixes generated links so the same renderer serves from a
	// mounted sub-path.
	BasePath string
	// Messages overrides the display strings (yes/no, placeholders). Nil
	// uses DefaultMessages.
	Messages *Messages
}

// Messages holds the localizable display strings used by renderers and the
// display-value layer.
type Messages struct {
	Yes            string
	No             string
	Empty          string
	LoadingOptions string
	SelectOne      string
	NoRecords      string
	Previous       string
	Next           string
}

var defaultMessages = Messages{
	Yes:            "Yes",
	No:             "No",
	Empty:          "—",
	LoadingOptions: "Loading options…",
	SelectOne:      "Select…",
	NoRecords:      "No records found",
	Previous:       "Previous",
	Next:           "Next",
}

// DefaultMessages returns the built-in English strings.
func DefaultMessages() *Messages {
	m := defaultMessages
	return &m
}

// MessagesPTBR returns the Brazilian Portuguese strings the back office
// originally shipped with.
func MessagesPTBR() *Messages {
	return &Messages{
		Yes:            "Sim",
		No:             "Não",
		Empty:          "—",
		LoadingOptions: "Carregando opções…",
		SelectOne:      "Selecione…",
		NoRecords:      "Nenhum registro encontrado",
		Previous:       "Anterior",
		Next:           "Próximo",
	}
}
