package main

import (
	"go.uber.org/zap"

	"github.com/sigflow/engine/pkg/proto"
)

// logNotifier implements proto.Notifier by logging every notification,
// standing in for a real transport (wire encoding is out of scope per the
// engine's own non-goals).
type logNotifier struct {
	logger *zap.Logger
}

func newLogNotifier(logger *zap.Logger) *logNotifier {
	return &logNotifier{logger: logger.Named("notify")}
}

func (n *logNotifier) Put(p proto.Put) { n.logger.Info("put", zap.String("path", p.Path)) }

func (n *logNotifier) Delta(d proto.Delta) {
	n.logger.Info("delta", zap.String("path", d.Path), zap.Any("added", d.Added), zap.Strings("removed", d.Removed))
}

func (n *logNotifier) Connect(c proto.Connect) {
	n.logger.Info("connect", zap.String("src", c.Src), zap.String("dst", c.Dst))
}

func (n *logNotifier) Disconnect(c proto.Disconnect) {
	n.logger.Info("disconnect", zap.String("src", c.Src), zap.String("dst", c.Dst))
}

func (n *logNotifier) Delete(d proto.Delete) { n.logger.Info("delete", zap.String("path", d.Path)) }

func (n *logNotifier) Move(m proto.Move) {
	n.logger.Info("move", zap.String("old", m.Old), zap.String("new", m.New))
}

func (n *logNotifier) Activity(a proto.Activity) {
	n.logger.Debug("activity", zap.String("path", a.Path), zap.Float64("value", a.Value))
}

func (n *logNotifier) Error(e proto.AsyncError) {
	n.logger.Error("async error", zap.String("request_id", e.RequestID), zap.String("message", e.Message))
}

func (n *logNotifier) Status(s proto.Status) {
	if s.OK {
		n.logger.Debug("status ok", zap.String("request_id", s.RequestID))
		return
	}
	n.logger.Warn("status error", zap.String("request_id", s.RequestID), zap.String("kind", s.Kind), zap.String("message", s.Message))
}
