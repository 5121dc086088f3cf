package noc

import "fmt"

// Lane is a tag-separated message channel between two fixed endpoints. Values on
// different lanes never overtake or block each other.
type Lane int

const (
	LaneBroadcast      Lane = 10
	LaneRowOperands    Lane = 20
	LaneColumnOperands Lane = 30
	LaneA              Lane = 100
	LaneB              Lane = 101
	LaneResult         Lane = 102
)

// Lanes lists every lane in tag order.
func Lanes() []Lane {
	return []Lane{LaneBroadcast, LaneRowOperands, LaneColumnOperands, LaneA, LaneB, LaneResult}
}

func (l Lane) String() string {
	switch l {
	case LaneBroadcast:
		return "broadcast"
	case LaneRowOperands:
		return "row_operands"
	case LaneColumnOperands:
		return "column_operands"
	case LaneA:
		return "a"
	case LaneB:
		return "b"
	case LaneResult:
		return "result"
	default:
		return fmt.Sprintf("lane(%d)", int(l))
	}
}
