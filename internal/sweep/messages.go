package sweep

import "fmt"

// ClosureComment is posted on a pull request right before it is closed.
func ClosureComment(daysClose int, mentions string) string {
	return fmt.Sprintf("🔒 This PR has been open for more than %d days and is being closed automatically.\n"+
		"%s\n"+
		"Please reopen if you still need these changes.", daysClose, mentions)
}
