/*
file: respkv/internal/command/commands.go
*/
package command

import (
	"strconv"
	"strings"

	"github.com/go-respkv/respkv/internal/resp"
	"github.com/go-respkv/respkv/internal/store"
)

func handlePing(ctx *Context, args []resp.Value) resp.Value {
	switch len(args) {
	case 0:
		return resp.NewSimpleString("PONG")
	case 1:
		msg, ok := bulkString(args[0])
		if !ok {
			return resp.NewError("ERR PING argument must be a bulk string")
		}
		return resp.NewBulkString(msg)
	default:
		return resp.NewError("ERR wrong number of arguments for 'ping' command")
	}
}

func handleEcho(ctx *Context, args []resp.Value) resp.Value {
	if len(args) != 1 {
		return resp.NewError("ERR wrong number of arguments for 'echo' command")
	}
	msg, ok := bulkString(args[0])
	if !ok {
		return resp.NewError("ERR ECHO argument must be a bulk string")
	}
	return resp.NewSimpleString(msg)
}

func handleGet(ctx *Context, args []resp.Value) resp.Value {
	if len(args) != 1 {
		return resp.NewError("ERR wrong number of arguments for 'get' command")
	}
	key, ok := bulkString(args[0])
	if !ok {
		return resp.NewError("ERR GET key must be a bulk string")
	}

	val, err := ctx.Keyspace.Get(key)
	switch err {
	case nil:
		return resp.NewBulk(val)
	case store.ErrNotFound, store.ErrExpired:
		return resp.NullBulk()
	default:
		return resp.NewError("ERR " + err.Error())
	}
}

// handleSet implements the SET option matrix: EX/PX/EXAT/PXAT/KEEPTTL
// (mutually exclusive expiry modes), NX/XX (mutually exclusive
// existence preconditions) and GET (return the previous value).
func handleSet(ctx *Context, args []resp.Value) resp.Value {
	if len(args) < 2 {
		return resp.NewError("ERR wrong number of arguments for 'set' command")
	}
	key, ok := bulkString(args[0])
	if !ok {
		return resp.NewError("ERR SET key must be a bulk string")
	}
	value, ok := bulkString(args[1])
	if !ok {
		return resp.NewError("ERR SET value must be a bulk string")
	}

	var b store.SetOptionsBuilder
	rest := args[2:]
	for i := 0; i < len(rest); i++ {
		tok, ok := bulkString(rest[i])
		if !ok {
			return resp.NewError("ERR SET options must be bulk strings")
		}
		switch strings.ToUpper(tok) {
		case "NX":
			if err := b.WithPresence(store.PresenceNX); err != nil {
				return resp.NewError("ERR " + err.Error())
			}
		case "XX":
			if err := b.WithPresence(store.PresenceXX); err != nil {
				return resp.NewError("ERR " + err.Error())
			}
		case "GET":
			b.WithGet()
		case "KEEPTTL":
			if err := b.WithExpiry(store.ExpiryKeep, 0); err != nil {
				return resp.NewError("ERR " + err.Error())
			}
		case "EX", "PX", "EXAT", "PXAT":
			i++
			if i >= len(rest) {
				return resp.NewError("ERR syntax error")
			}
			raw, ok := bulkString(rest[i])
			if !ok {
				return resp.NewError("ERR syntax error")
			}
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return resp.NewError("ERR value is not an integer or out of range")
			}
			mode := map[string]store.ExpiryMode{
				"EX":   store.ExpirySeconds,
				"PX":   store.ExpiryMillis,
				"EXAT": store.ExpiryUnixSeconds,
				"PXAT": store.ExpiryUnixMillis,
			}[strings.ToUpper(tok)]
			if err := b.WithExpiry(mode, n); err != nil {
				return resp.NewError("ERR " + err.Error())
			}
		default:
			return resp.NewError("ERR syntax error")
		}
	}

	opts, err := b.Build()
	if err != nil {
		return resp.NewError("ERR " + err.Error())
	}

	ok, prior, err := ctx.Keyspace.Set(key, []byte(value), opts)
	if err != nil {
		return resp.NewError("ERR " + err.Error())
	}

	if opts.ReturnOld {
		if prior == nil {
			return resp.NullBulk()
		}
		return resp.NewBulk(prior)
	}
	if !ok {
		return resp.NullBulk()
	}
	return resp.NewSimpleString("OK")
}

func handleConfig(ctx *Context, args []resp.Value) resp.Value {
	if len(args) == 0 {
		return resp.NewError("ERR wrong number of arguments for 'config' command")
	}
	sub, ok := bulkString(args[0])
	if !ok {
		return resp.NewError("ERR CONFIG subcommand must be a bulk string")
	}

	switch strings.ToUpper(sub) {
	case "GET":
		if len(args) != 2 {
			return resp.NewError("ERR wrong number of arguments for 'config|get' command")
		}
		pattern, ok := bulkString(args[1])
		if !ok {
			return resp.NewError("ERR CONFIG GET pattern must be a bulk string")
		}
		if !strings.Contains(pattern, "*") {
			value, ok := ctx.Config.Get(pattern)
			if !ok {
				return resp.NullArray()
			}
			return resp.NewArray([]resp.Value{resp.NewBulkString(pattern), resp.NewBulkString(value)})
		}
		pairs := ctx.Config.Match(pattern)
		elems := make([]resp.Value, len(pairs))
		for i, s := range pairs {
			elems[i] = resp.NewBulkString(s)
		}
		return resp.NewArray(elems)
	case "SET":
		if len(args) != 3 {
			return resp.NewError("ERR wrong number of arguments for 'config|set' command")
		}
		name, ok := bulkString(args[1])
		if !ok {
			return resp.NewError("ERR CONFIG SET parameter must be a bulk string")
		}
		value, ok := bulkString(args[2])
		if !ok {
			return resp.NewError("ERR CONFIG SET value must be a bulk string")
		}
		ctx.Config.Set(name, value)
		return resp.NewSimpleString("OK")
	default:
		return resp.NewError("ERR unknown CONFIG subcommand '" + sub + "'")
	}
}
