package models

// Message is an event sent by the scanner to the consumer.
type Message interface {
	isMessage()
}

// DataMessage hands a completed subtree to the consumer.
type DataMessage struct {
	Node *Node
}

func (DataMessage) isMessage() {}

// DirectoryScanStartMessage is emitted when a directory is entered
type DirectoryScanStartMessage struct {
	Path string
}

func (DirectoryScanStartMessage) isMessage() {}

// DirectoryScanDoneMessage carries the statistics of the files directly
// inside one finished directory.
type DirectoryScanDoneMessage struct {
	Result ScanResult
}

func (DirectoryScanDoneMessage) isMessage() {}

// FinishedMessage is the last message of a scan session.
type FinishedMessage struct{}

func (FinishedMessage) isMessage() {}
