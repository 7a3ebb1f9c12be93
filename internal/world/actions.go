package world

// Actions enumerates the action literals available in an instance: a pickup
// per person, a single dropoff, and a move per direction constant.
func Actions(people []Object, directions []Direction) []Fact {
	facts := make([]Fact, 0, len(people)+1+len(directions))
	for _, p := range people {
		facts = append(facts, Pickup(p))
	}
	facts = append(facts, Dropoff())
	for _, d := range directions {
		facts = append(facts, Move(d))
	}
	return facts
}
