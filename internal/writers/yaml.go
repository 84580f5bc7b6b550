package writers

import (
	"io"

	"gopkg.in/yaml.v3"
)

func init() { Register("yaml", writeYAML) }

func writeYAML(w io.Writer, payload any, _ Options) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(payload); err != nil {
		return err
	}
	return enc.Close()
}
