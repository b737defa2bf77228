package ws

import "strings"

// Chat text starting with one of these prefixes is a command, not a
// message. The trailing space is part of the prefix: a bare "!propose"
// is relayed as ordinary chat.
const (
	proposePrefix = "!propose "
	deletePrefix  = "!delete "
)

type commandKind int

const (
	cmdChat commandKind = iota
	cmdPropose
	cmdDelete
)

type chatCommand struct {
	kind commandKind
	// pid is empty for a malformed command (prefix without an id).
	pid string
}

func parseChatCommand(text string) chatCommand {
	switch {
	case strings.HasPrefix(text, proposePrefix):
		return chatCommand{kind: cmdPropose, pid: strings.TrimSpace(text[len(proposePrefix):])}
	case strings.HasPrefix(text, deletePrefix):
		return chatCommand{kind: cmdDelete, pid: strings.TrimSpace(text[len(deletePrefix):])}
	default:
		return chatCommand{kind: cmdChat}
	}
}
