package respond

import "regexp"

type mask struct {
	re   *regexp.Regexp
	repl string
}

// masks run in order. Anthropic keys come before the generic sk- form so they
// keep their prefix.
var masks = []mask{
	{regexp.MustCompile(`sk-ant-[a-zA-Z0-9_-]+`), "sk-ant-****"},
	{regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`), "sk-****"},
	{regexp.MustCompile(`(?i)(bearer\s+)[a-zA-Z0-9._~+/-]+=*`), "${1}****"},
	{regexp.MustCompile(`(?i)(x-api-key:\s*)\S+`), "${1}****"},
	{regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`), "://$1:****@"},
	{regexp.MustCompile(`([?&](?:api_?key|key|token)=)[^&\s"]+`), "${1}****"},
}

// SanitizeError returns err's message with credentials masked: provider API
// keys, bearer tokens, URL passwords and key-like query parameters.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, m := range masks {
		msg = m.re.ReplaceAllString(msg, m.repl)
	}
	return msg
}
