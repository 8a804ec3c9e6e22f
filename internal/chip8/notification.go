package chip8

// Notice identifies a one-way signal from the machine to its host.
type Notice string

const (
	// NoticeDisplayUpdated is emitted after every draw instruction.
	NoticeDisplayUpdated Notice = "display updated"

	// NoticeSoundOn is emitted when a program sets the sound timer to a
	// nonzero value.
	NoticeSoundOn Notice = "sound on"

	// NoticeSoundOff is emitted when the sound timer decays from
	// nonzero to zero.
	NoticeSoundOff Notice = "sound off"
)

// Notifier receives notices from the machine. Notify is called
// synchronously on the goroutine advancing the machine and must not
// call back into it.
type Notifier interface {
	Notify(notice Notice)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(notice Notice)

// Notify implements the Notifier interface.
func (f NotifierFunc) Notify(notice Notice) {
	f(notice)
}
