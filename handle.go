package smbclient

import (
	"sync"

	"github.com/absfs/smbclient/engine"
)

// engineMu serializes context allocation and release across all clients.
// Engines are not required to make those routines reentrant.
var engineMu sync.Mutex

// noCopy lets go vet's copylocks check flag copies of the embedding struct.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// engineHandle owns one engine context.
type engineHandle struct {
	noCopy noCopy
	eng    engine.Engine
	ctx    engine.Context
}

func newEngineHandle(eng engine.Engine) (*engineHandle, error) {
	engineMu.Lock()
	defer engineMu.Unlock()

	ctx := eng.NewContext()
	if ctx == nil {
		return nil, ErrEngineInit
	}
	if eng.InitContext(ctx) == nil {
		eng.FreeContext(ctx, true)
		return nil, ErrEngineInit
	}
	return &engineHandle{eng: eng, ctx: ctx}, nil
}

// destroy frees the context. Only the first call reaches the engine.
func (h *engineHandle) destroy() {
	engineMu.Lock()
	defer engineMu.Unlock()

	if h.ctx == nil {
		return
	}
	h.eng.FreeContext(h.ctx, true)
	h.ctx = nil
}
