package layout

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteScript persists the composed directive as a helper script handing the
// layout to the terminal host. The file is transient: overwritten on every
// run and safe to delete after execution.
func WriteScript(path string, d Directive) error {
	if path == "" {
		return fmt.Errorf("script path required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}
	body := "#!/bin/sh\n# generated by launchpad; overwritten each run\nexec " + d.String() + "\n"
	return os.WriteFile(path, []byte(body), 0o700)
}
