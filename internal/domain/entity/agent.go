package entity

// AgentRun is what the external agent library hands back after driving
// the browser: the final text, the pages it went through, how many
// tool invocations it spent and whether it produced a final answer at
// all.
type AgentRun struct {
	FinalAnswer string
	URLsVisited []string
	StepsTaken  int
	Done        bool
}
