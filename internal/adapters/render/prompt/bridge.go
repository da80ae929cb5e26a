package prompt

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/domain"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/ports"
)

type ShowMsg struct {
	SecondsLeft int
}

type UpdateMsg struct {
	SecondsLeft int
}

type HideMsg struct{}

type SignedOutMsg struct {
	Reason domain.LogoutReason
}

type sender interface {
	Send(msg tea.Msg)
}

// Bridge forwards monitor callbacks into a running bubbletea program. Calls
// made before Attach are dropped.
type Bridge struct {
	mu     sync.RWMutex
	target sender
}

var _ ports.WarningPrompt = (*Bridge)(nil)

func NewBridge() *Bridge {
	return &Bridge{}
}

func (b *Bridge) Attach(target sender) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.target = target
}

func (b *Bridge) Show(secondsLeft int) {
	b.send(ShowMsg{SecondsLeft: secondsLeft})
}

func (b *Bridge) Update(secondsLeft int) {
	b.send(UpdateMsg{SecondsLeft: secondsLeft})
}

func (b *Bridge) Hide() {
	b.send(HideMsg{})
}

// SignedOut tells the program the session is over.
func (b *Bridge) SignedOut(reason domain.LogoutReason) {
	b.send(SignedOutMsg{Reason: reason})
}

func (b *Bridge) send(msg tea.Msg) {
	b.mu.RLock()
	target := b.target
	b.mu.RUnlock()

	if target != nil {
		target.Send(msg)
	}
}
