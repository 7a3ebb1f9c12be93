package world

import (
	"cmp"
	"fmt"
)

// Location is one cell of the grid, identified by its position.
type Location struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Name renders the location the way the domain names location objects.
func (l Location) Name() string {
	return fmt.Sprintf("f%d-%df", l.Row, l.Col)
}

func (l Location) compare(o Location) int {
	if c := cmp.Compare(l.Row, o.Row); c != 0 {
		return c
	}
	return cmp.Compare(l.Col, o.Col)
}

// Direction is one of the four orthogonal moves.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in declaration order.
var Directions = []Direction{Up, Down, Left, Right}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// ParseDirection maps a domain constant name back to a Direction.
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Kind is the PDDL type of an object.
type Kind uint8

const (
	KindLocation Kind = iota
	KindRobot
	KindHospital
	KindPerson
	KindWall
	KindDirection
)

func (k Kind) String() string {
	switch k {
	case KindLocation:
		return "location"
	case KindRobot:
		return "robot"
	case KindHospital:
		return "hospital"
	case KindPerson:
		return "person"
	case KindWall:
		return "wall"
	case KindDirection:
		return "direction"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Object is a typed PDDL object. Identity is the (Kind, Index, Loc) triple:
// Loc is only meaningful for locations, Index for everything else.
type Object struct {
	Kind  Kind
	Index int
	Loc   Location
}

// LocationObject wraps a location as an object.
func LocationObject(l Location) Object { return Object{Kind: KindLocation, Loc: l} }

// DirectionObject wraps a direction constant as an object.
func DirectionObject(d Direction) Object { return Object{Kind: KindDirection, Index: int(d)} }

// Robot returns the robot with the given index.
func Robot(i int) Object { return Object{Kind: KindRobot, Index: i} }

// Hospital returns the hospital with the given index.
func Hospital(i int) Object { return Object{Kind: KindHospital, Index: i} }

// Person returns the person with the given index.
func Person(i int) Object { return Object{Kind: KindPerson, Index: i} }

// Wall returns the wall with the given index.
func Wall(i int) Object { return Object{Kind: KindWall, Index: i} }

// Name renders the object name used in serialized problems.
func (o Object) Name() string {
	switch o.Kind {
	case KindLocation:
		return o.Loc.Name()
	case KindDirection:
		return Direction(o.Index).String()
	}
	return fmt.Sprintf("%s%d", o.Kind, o.Index)
}

// Compare orders objects by kind, then index, then location.
func (o Object) Compare(p Object) int {
	if c := cmp.Compare(o.Kind, p.Kind); c != 0 {
		return c
	}
	if c := cmp.Compare(o.Index, p.Index); c != 0 {
		return c
	}
	return o.Loc.compare(p.Loc)
}

// Predicate names a domain predicate.
type Predicate string

const (
	PredConn       Predicate = "conn"
	PredClear      Predicate = "clear"
	PredRobotAt    Predicate = "robot-at"
	PredPersonAt   Predicate = "person-at"
	PredWallAt     Predicate = "wall-at"
	PredHospitalAt Predicate = "hospital-at"
	PredCarrying   Predicate = "carrying"
	PredHandsFree  Predicate = "handsfree"
	PredMove       Predicate = "move"
	PredPickup     Predicate = "pickup"
	PredDropoff    Predicate = "dropoff"
)

// Fact is a ground atom. It is comparable, so it can key a map.
type Fact struct {
	Pred  Predicate
	Arity uint8
	Args  [3]Object
}

func newFact(p Predicate, args ...Object) Fact {
	f := Fact{Pred: p, Arity: uint8(len(args))}
	copy(f.Args[:], args)
	return f
}

// Conn is the directed adjacency fact from one location to another.
func Conn(from, to Location, d Direction) Fact {
	return newFact(PredConn, LocationObject(from), LocationObject(to), DirectionObject(d))
}

// Clear marks a location as traversable.
func Clear(l Location) Fact { return newFact(PredClear, LocationObject(l)) }

// RobotAt places a robot.
func RobotAt(robot Object, l Location) Fact { return newFact(PredRobotAt, robot, LocationObject(l)) }

// PersonAt places a person.
func PersonAt(person Object, l Location) Fact {
	return newFact(PredPersonAt, person, LocationObject(l))
}

// WallAt places a wall.
func WallAt(wall Object, l Location) Fact { return newFact(PredWallAt, wall, LocationObject(l)) }

// HospitalAt places a hospital.
func HospitalAt(hospital Object, l Location) Fact {
	return newFact(PredHospitalAt, hospital, LocationObject(l))
}

// HandsFree states the robot carries nobody.
func HandsFree(robot Object) Fact { return newFact(PredHandsFree, robot) }

// Move is the action literal enabling movement in a direction.
func Move(d Direction) Fact { return newFact(PredMove, DirectionObject(d)) }

// Pickup is the action literal enabling picking up a person.
func Pickup(person Object) Fact { return newFact(PredPickup, person) }

// Dropoff is the action literal enabling dropping off whoever is carried.
func Dropoff() Fact { return newFact(PredDropoff) }

// Terms returns the populated arguments.
func (f Fact) Terms() []Object { return f.Args[:f.Arity] }

func (f Fact) String() string {
	s := "(" + string(f.Pred)
	for _, a := range f.Terms() {
		s += " " + a.Name()
	}
	return s + ")"
}

// Compare orders facts by predicate, arity, then arguments.
func (f Fact) Compare(g Fact) int {
	if c := cmp.Compare(f.Pred, g.Pred); c != 0 {
		return c
	}
	if c := cmp.Compare(f.Arity, g.Arity); c != 0 {
		return c
	}
	for i := range f.Arity {
		if c := f.Args[i].Compare(g.Args[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Goal is a conjunction of person-at literals.
type Goal struct {
	Literals []Fact
}

// Targets returns the persons the goal references, in literal order.
func (g Goal) Targets() []Object {
	out := make([]Object, 0, len(g.Literals))
	for _, lit := range g.Literals {
		out = append(out, lit.Args[0])
	}
	return out
}
