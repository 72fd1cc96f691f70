package events

import (
	"github.com/sigflow/engine/pkg/buffer"
	"github.com/sigflow/engine/pkg/path"
	"github.com/sigflow/engine/pkg/port"
	"github.com/sigflow/engine/pkg/proto"
	"github.com/sigflow/engine/pkg/sigerr"
)

// Op is the closed set of command verbs a proto.Command.Op may name.
const (
	OpCreateGraph      = "create_graph"
	OpCreateBlock      = "create_block"
	OpCreatePort       = "create_port"
	OpConnect          = "connect"
	OpDisconnect       = "disconnect"
	OpDisconnectAll    = "disconnect_all"
	OpDelete           = "delete"
	OpMove             = "move"
	OpSetPortValue     = "set_port_value"
	OpSetProperty      = "set_property"
	OpEnableGraph      = "enable_graph"
	OpDisableGraph     = "disable_graph"
	OpRegisterClient   = "register_client"
	OpUnregisterClient = "unregister_client"
	OpPing             = "ping"
)

// FromCommand parses a proto.Command into its concrete Event. The returned
// Event's Prepare has not yet run; that is the PreProcessor's next step.
func FromCommand(cmd proto.Command) (Event, error) {
	base := Base{ReqID: cmd.RequestID}
	target, err := parseTarget(cmd)
	if err != nil {
		return nil, err
	}
	base.Target = target

	switch cmd.Op {
	case OpCreateGraph:
		symbol, err := argString(cmd, "symbol")
		if err != nil {
			return nil, err
		}
		poly, _ := argInt(cmd, "internal_poly")
		if poly < 1 {
			poly = 1
		}
		return &CreateGraphEvent{Base: base, ParentPath: target, Symbol: symbol, InternalPoly: poly}, nil

	case OpCreateBlock:
		symbol, err := argString(cmd, "symbol")
		if err != nil {
			return nil, err
		}
		pluginID, err := argString(cmd, "plugin")
		if err != nil {
			return nil, err
		}
		poly, _ := argInt(cmd, "polyphony")
		if poly < 1 {
			poly = 1
		}
		return &CreateBlockEvent{Base: base, ParentPath: target, Symbol: symbol, PluginID: pluginID, Polyphony: poly}, nil

	case OpCreatePort:
		symbol, err := argString(cmd, "symbol")
		if err != nil {
			return nil, err
		}
		dir, err := argDirection(cmd)
		if err != nil {
			return nil, err
		}
		kind, err := argKind(cmd)
		if err != nil {
			return nil, err
		}
		poly, _ := argInt(cmd, "polyphony")
		if poly < 1 {
			poly = 1
		}
		capacity, _ := argInt(cmd, "capacity")
		return &CreatePortEvent{Base: base, BlockPath: target, Symbol: symbol, Direction: dir, Kind: kind, Polyphony: poly, Capacity: capacity}, nil

	case OpConnect:
		dst, err := argPath(cmd, "dst")
		if err != nil {
			return nil, err
		}
		return &ConnectEvent{Base: base, SrcPath: target, DstPath: dst}, nil

	case OpDisconnect:
		dst, err := argPath(cmd, "dst")
		if err != nil {
			return nil, err
		}
		return &DisconnectEvent{Base: base, SrcPath: target, DstPath: dst}, nil

	case OpDisconnectAll:
		return &DisconnectAllEvent{Base: base}, nil

	case OpDelete:
		return &DeleteEvent{Base: base}, nil

	case OpMove:
		newPath, err := argPath(cmd, "new_path")
		if err != nil {
			return nil, err
		}
		return &MoveEvent{Base: base, NewPath: newPath}, nil

	case OpSetPortValue:
		value, err := argFloat(cmd, "value")
		if err != nil {
			return nil, err
		}
		return &SetPortValueEvent{Base: base, Value: value}, nil

	case OpSetProperty:
		name, err := argString(cmd, "name")
		if err != nil {
			return nil, err
		}
		value, err := argFloat(cmd, "value")
		if err != nil {
			return nil, err
		}
		return &SetPropertyEvent{Base: base, Name: name, Value: value}, nil

	case OpEnableGraph:
		return &EnableGraphEvent{Base: base}, nil

	case OpDisableGraph:
		return &DisableGraphEvent{Base: base}, nil

	case OpRegisterClient:
		id, _ := argString(cmd, "client_id")
		return &RegisterClientEvent{Base: base, ClientID: id}, nil

	case OpUnregisterClient:
		id, _ := argString(cmd, "client_id")
		return &UnregisterClientEvent{Base: base, ClientID: id}, nil

	case OpPing:
		return &PingEvent{Base: base}, nil

	default:
		return nil, sigerr.New(sigerr.KindInternal, cmd.Path, "unknown command op: "+cmd.Op)
	}
}

func parseTarget(cmd proto.Command) (path.Path, error) {
	if cmd.Path == "" {
		return path.Root, nil
	}
	return path.Parse(cmd.Path)
}

func argString(cmd proto.Command, key string) (string, error) {
	v, ok := cmd.Args[key]
	if !ok {
		return "", sigerr.New(sigerr.KindInternal, cmd.Path, "missing argument: "+key)
	}
	s, ok := v.(string)
	if !ok {
		return "", sigerr.New(sigerr.KindInternal, cmd.Path, "argument not a string: "+key)
	}
	return s, nil
}

func argPath(cmd proto.Command, key string) (path.Path, error) {
	s, err := argString(cmd, key)
	if err != nil {
		return path.Root, err
	}
	return path.Parse(s)
}

func argFloat(cmd proto.Command, key string) (float64, error) {
	v, ok := cmd.Args[key]
	if !ok {
		return 0, sigerr.New(sigerr.KindInternal, cmd.Path, "missing argument: "+key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	default:
		return 0, sigerr.New(sigerr.KindInternal, cmd.Path, "argument not numeric: "+key)
	}
}

func argInt(cmd proto.Command, key string) (int, error) {
	f, err := argFloat(cmd, key)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func argDirection(cmd proto.Command) (port.Direction, error) {
	s, err := argString(cmd, "direction")
	if err != nil {
		return 0, err
	}
	switch s {
	case "input":
		return port.Input, nil
	case "output":
		return port.Output, nil
	default:
		return 0, sigerr.New(sigerr.KindInternal, cmd.Path, "invalid direction: "+s)
	}
}

func argKind(cmd proto.Command) (buffer.Kind, error) {
	s, err := argString(cmd, "kind")
	if err != nil {
		return 0, err
	}
	switch s {
	case "audio":
		return buffer.KindAudio, nil
	case "control":
		return buffer.KindControl, nil
	case "cv":
		return buffer.KindCv, nil
	case "sequence":
		return buffer.KindSequence, nil
	default:
		return 0, sigerr.New(sigerr.KindInternal, cmd.Path, "invalid port kind: "+s)
	}
}
