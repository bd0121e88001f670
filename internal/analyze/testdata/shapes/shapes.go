package shapes

import (
	"time"

	stdjson "encoding/json"
)

// Shape is a drawable thing.
//
//enumgen:enum Shape
//enumgen:repr i8
//enumgen:derive Display
type shapeSpec struct {
	// Circle has a radius.
	//enumgen:variant value="circle" index=10
	Circle struct {
		Radius float64 `json:"radius"`
	}
	Pair func(string, int)
	Wait time.Duration
	Raw  stdjson.RawMessage
	None struct{} `discriminant:"20"`
}

// plain has no directive and is ignored.
type plain struct {
	A int
}
