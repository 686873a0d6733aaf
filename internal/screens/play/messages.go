package play

// tickMsg is one countdown unit for the question shown at generation.
type tickMsg struct {
	generation uint64
}
