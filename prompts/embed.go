package prompts

import _ "embed"

//go:embed agent/system.md
var DefaultSystemPrompt string

//go:embed agent/blocking.md
var BlockingClause string
