package component

// Script attaches a tengo event script. Path names a file under the
// embedded scripts directory or its on-disk override.
type Script struct {
	Path string
}

var ScriptComponent = NewComponent[Script]()
