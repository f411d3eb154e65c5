package effect

// StrategyPair names the on/off strategies a legacy effect style number
// selects.
type StrategyPair struct {
	On, Off Strategy
}

// styleTable is the opcode-to-operation dispatch table REDESIGN FLAGS calls
// for, built once at init() rather than switched on per call.
var styleTable map[int]StrategyPair

func init() {
	styleTable = map[int]StrategyPair{
		15:  {On: Scroll{}, Off: Scroll{}},
		16:  {On: Scroll{}, Off: Squash{}},
		17:  {On: Squash{}, Off: Scroll{}},
		18:  {On: Squash{}, Off: Squash{}},
		20:  {On: Slide{}, Off: None{}},
		21:  {On: None{}, Off: Slide{}},
		10:  {On: Wipe{}, Off: None{}},
		120: {On: Blind{Slats: 8}, Off: None{}},
	}
}

// Style looks up the on/off strategy pair a legacy effect style number
// selects, reporting false for any style outside the recognised set.
func Style(n int) (StrategyPair, bool) {
	p, ok := styleTable[n]
	return p, ok
}
