package engine

import "fmt"

// ShareMessage is the text used when a user shares their progress.
func ShareMessage(streak int) string {
	return fmt.Sprintf("I'm on a %d-day streak! Check out my progress on Better You.", streak)
}
