// Command asteritime is the terminal client for the AsteriTime server:
// login, task management, board views, the reconciliation loop, journal
// entries, and a Pomodoro timer.
package main

func main() {
	Execute()
}
