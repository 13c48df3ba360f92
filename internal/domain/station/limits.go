package station

import "github.com/fuelsync/backend/internal/domain/shared"

// LimitKind names the plan limit being checked
type LimitKind string

const (
	LimitStations        LimitKind = "stations"
	LimitPumpsPerStation LimitKind = "pumps_per_station"
	LimitNozzlesPerPump  LimitKind = "nozzles_per_pump"
)

// CheckPlanLimit rejects creating one more item when count has reached limit
func CheckPlanLimit(kind LimitKind, count int64, limit int) error {
	if count >= int64(limit) {
		return shared.Errorf(shared.CodePlanLimitExceeded,
			"Plan limit exceeded: %s (%d of %d used)", kind, count, limit)
	}
	return nil
}

// Usage reports consumption of one plan limit
type Usage struct {
	Used  int64 `json:"used"`
	Limit int   `json:"limit"`
}

// Remaining returns how many more items may be created
func (u Usage) Remaining() int64 {
	r := int64(u.Limit) - u.Used
	if r < 0 {
		return 0
	}
	return r
}
