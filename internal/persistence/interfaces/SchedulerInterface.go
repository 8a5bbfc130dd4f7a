package interfaces

type SchedulerInterface interface {
	Restore() error
	Persist() error
}
