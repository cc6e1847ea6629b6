package migration

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// TargetVersion is the schema version every chat database is brought up to.
const TargetVersion = 1

// SenderIDStep adds forwarded_message.sender_id and backfills existing rows with 0.
var SenderIDStep = Step{
	Version:     TargetVersion,
	Description: "add sender_id to forwarded_message",
	Statements: []string{
		"ALTER TABLE forwarded_message ADD COLUMN sender_id INTEGER",
		"UPDATE forwarded_message SET sender_id = 0",
	},
}

// Checksum returns a BLAKE2b-256 digest of the step statements.
func (s Step) Checksum() string {
	sum := blake2b.Sum256([]byte(strings.Join(s.Statements, ";\n")))
	return hex.EncodeToString(sum[:])
}
