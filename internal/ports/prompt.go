package ports

// WarningPrompt is the user-facing countdown shown before the session expires.
type WarningPrompt interface {
	Show(secondsLeft int)
	Update(secondsLeft int)
	Hide()
}
