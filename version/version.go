// Package version reports the orbit CLI's build identity.
package version

import "fmt"

const (
	VERSION = "0.1.0"
	COMMIT  = "dev"
)

func Version() string {
	return fmt.Sprintf("orbit %s (%s)", VERSION, COMMIT)
}
