package model

// Component names understood by the built-in renderers.
const (
	ComponentSelect   = "select"
	ComponentRadio    = "radio"
	ComponentCheckbox = "checkbox"
	ComponentText     = "text"
)

// Notice types. NoticeUpdated is rendered as a success notice.
const (
	NoticeUpdated = "updated"
	NoticeError   = "error"
	NoticeWarning = "warning"
	NoticeInfo    = "info"
)

// Args is the metadata bag attached to a field at registration. LabelFor is
// both the control id and the `for` target of the row label; Class lands on
// the row; CustomData is emitted as data-custom on every control.
type Args struct {
	LabelFor   string            `json:"label_for,omitempty"`
	Class      string            `json:"class,omitempty"`
	CustomData string            `json:"custom_data,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Field is one registered settings field.
type Field struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Component string `json:"component"`
	Page      string `json:"page"`
	Section   string `json:"section"`
	Args      Args   `json:"args"`
}

// Section groups fields on a page. Description is emitted as a paragraph
// carrying the section id.
type Section struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Page        string  `json:"page"`
	Fields      []Field `json:"fields,omitempty"`
}

// Setting binds an options group to the option name it persists under.
type Setting struct {
	Group      string `json:"group"`
	OptionName string `json:"option_name"`
}

// MenuPage describes an admin page and the capability that gates it.
type MenuPage struct {
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	MenuTitle  string `json:"menu_title"`
	Capability string `json:"capability"`
}

// Notice is a queued admin message.
type Notice struct {
	Setting string `json:"setting"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Page is the assembled model renderers consume: the menu page, the setting it
// submits, and its sections in registration order.
type Page struct {
	Menu        MenuPage  `json:"menu"`
	Setting     Setting   `json:"setting"`
	Action      string    `json:"action"`
	SubmitLabel string    `json:"submit_label"`
	Sections    []Section `json:"sections"`
}

// Fields flattens the page fields in render order.
func (p Page) Fields() []Field {
	var out []Field
	for _, section := range p.Sections {
		out = append(out, section.Fields...)
	}
	return out
}
