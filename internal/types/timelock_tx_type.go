package types

// TimeLockType tells the unlock checker what to emit when a lock elapses.
type TimeLockType string

const (
	StakeUnlockTimeLockType TimeLockType = "STAKE_UNLOCK"
)

func (t TimeLockType) String() string {
	return string(t)
}
