package driver

// ApplyMessage asks the runner to apply one point update.
type ApplyMessage struct {
	Pos          int
	Value        int64
	ResponseChan chan ApplyResponse
}

// ApplyResponse is the outcome of one applied step.
type ApplyResponse struct {
	Step  uint64
	Best  int64
	Total uint64
	Err   error
}

// BestMessage asks for the current best sum.
type BestMessage struct {
	ResponseChan chan int64
}

// TotalMessage asks for the modular running total.
type TotalMessage struct {
	ResponseChan chan uint64
}

// StateMessage asks for a copy of the current weights.
type StateMessage struct {
	ResponseChan chan []int64
}

// FlushMessage manually triggers a journal flush.
type FlushMessage struct {
	ResponseChan chan error
}

// SnapshotMessage manually triggers a sequence snapshot.
type SnapshotMessage struct {
	ResponseChan chan error
}
