package reconcile

import (
	"fmt"
	"strings"
)

// validate validates the RunOptions for the reconcile command.
func validate(o *RunOptions) error {
	if strings.TrimSpace(o.SarifPath) == "" {
		return fmt.Errorf("--sarif is required")
	}
	if o.Repository == "" {
		return fmt.Errorf("--repository is required")
	}
	if o.Language == "" {
		return fmt.Errorf("--language is required")
	}
	return nil
}
