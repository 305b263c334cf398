/*
file: respkv/internal/command/command.go
*/
package command

import (
	"strings"

	"github.com/go-respkv/respkv/internal/configstore"
	"github.com/go-respkv/respkv/internal/resp"
	"github.com/go-respkv/respkv/internal/store"
)

// Context bundles the shared state every command handler may touch.
// It plays the role the teacher's common.AppState plays for its
// handlers, narrowed to exactly the two stores this server's command
// surface needs.
type Context struct {
	Keyspace *store.Keyspace
	Config   *configstore.Store
}

// Handler executes one command's arguments (the command name itself
// already stripped off) and produces the reply to serialize back to
// the client.
type Handler func(ctx *Context, args []resp.Value) resp.Value

// Registry maps upper-cased command names to their handlers. Lookups
// are case-insensitive, matching real RESP clients that send "get",
// "Get" and "GET" interchangeably.
var Registry = map[string]Handler{
	"PING":   handlePing,
	"ECHO":   handleEcho,
	"GET":    handleGet,
	"SET":    handleSet,
	"CONFIG": handleConfig,
}

// Dispatch looks up and runs the handler for a parsed RESP command
// array. v must be a non-null Array of Bulk elements; anything else
// is a protocol-level misuse and produces a RESP error reply rather
// than a Go error, since by this point a malformed command is a
// client-facing condition, not a codec bug.
func Dispatch(ctx *Context, v resp.Value) resp.Value {
	if v.Type != resp.Array || v.ArrayNull || len(v.Elems) == 0 {
		return resp.NewError("ERR invalid command: expected a non-empty array of bulk strings")
	}

	name, ok := bulkString(v.Elems[0])
	if !ok {
		return resp.NewError("ERR invalid command: command name must be a bulk string")
	}

	handler, ok := Registry[strings.ToUpper(name)]
	if !ok {
		return resp.NewError("ERR unknown command '" + name + "'")
	}
	return handler(ctx, v.Elems[1:])
}

func bulkString(v resp.Value) (string, bool) {
	if v.Type != resp.Bulk || v.BulkNull {
		return "", false
	}
	return string(v.Bulk), true
}
