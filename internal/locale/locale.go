package locale

import (
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

// Locale is an explicitly constructed lookup table for user facing
// messages. It is passed to whatever renders output rather than being
// process-global so nothing depends on initialization order.
type Locale struct {
	messages map[string]string
}

// New loads "<dir>/<language>.yaml", a flat key to message mapping.
// A missing or unreadable file degrades to an empty table so lookups
// fall back to their keys.
func New(dir string, language string) *Locale {
	messages := map[string]string{}

	raw, err := os.ReadFile(path.Join(dir, language+".yaml"))

	if err == nil {
		if err := yaml.Unmarshal(raw, &messages); err != nil {
			messages = map[string]string{}
		}
	}

	return &Locale{messages: messages}
}

// Get returns the localised message for key, or the key itself when
// no translation exists
func (l *Locale) Get(key string) string {
	if msg, ok := l.messages[key]; ok {
		return msg
	}

	return key
}
