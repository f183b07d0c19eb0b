package models

import (
	"time"

	"github.com/google/uuid"
)

// 목록 라벨 포맷 (숫자 날짜 + 표준 시간)
const LabelLayout = "1/2/2006, 3:04:05 PM"

// 저장소에 보관되는 단일 엔티티
type Item struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// 현재 시각으로 생성된 아이템
func NewItem(timestamp time.Time) Item {
	return Item{
		ID:        uuid.NewString(),
		Timestamp: timestamp,
	}
}

// Label formats the timestamp for list rows. A nil location keeps the
// timestamp's own location.
func (i Item) Label(loc *time.Location) string {
	ts := i.Timestamp
	if loc != nil {
		ts = ts.In(loc)
	}
	return ts.Format(LabelLayout)
}

// 디테일 화면에 표시되는 문구
func (i Item) DetailText(loc *time.Location) string {
	return "Item at " + i.Label(loc)
}
