package email

// Template names a file under templates/ without its extension.
type Template string

const (
	TemplateWelcome Template = "welcome"
)

// PreviewData holds sample values for rendering each template locally.
var PreviewData = map[Template]map[string]string{
	TemplateWelcome: {
		"UserName": "Diego",
	},
}
