package email

// Template names an HTML file under templates/, without the extension.
type Template string

const (
	TemplateWelcome Template = "welcome"
)
