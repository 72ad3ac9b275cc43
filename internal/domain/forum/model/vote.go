package model

import (
	"encoding/json"
	"fmt"
)

// Direction 投票方向
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection 解析投票方向，只接受 up / down
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionUp, DirectionDown:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("%w: vote direction %q", ErrInvalidArgument, s)
	}
}

// Votes 赞/踩计数，只增不减
type Votes struct {
	Upvotes   uint64 `json:"upvotes"`
	Downvotes uint64 `json:"downvotes"`
}

// Score 得分 = 赞 - 踩，可以为负
func (v Votes) Score() int64 {
	return int64(v.Upvotes) - int64(v.Downvotes)
}

// Apply 按方向加一，调用方负责加锁
func (v *Votes) Apply(d Direction) error {
	switch d {
	case DirectionUp:
		v.Upvotes++
	case DirectionDown:
		v.Downvotes++
	default:
		return fmt.Errorf("%w: vote direction %q", ErrInvalidArgument, d)
	}
	return nil
}

// MarshalJSON 输出时附带 score，前端不必自己计算
func (v Votes) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Upvotes   uint64 `json:"upvotes"`
		Downvotes uint64 `json:"downvotes"`
		Score     int64  `json:"score"`
	}{v.Upvotes, v.Downvotes, v.Score()})
}
