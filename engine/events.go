package engine

import "github.com/jsphweid/notefall/model"

type SpawnEvent struct {
	ID       uint64
	Part     model.Part
	Pitch    int
	Lane     int
	Duration float64
	Offset   float64
	Autoplay bool
}

type HitEvent struct {
	ID       uint64
	Pitch    int
	Lane     int
	Position float64
	Autoplay bool
}

type MissEvent struct {
	ID    uint64
	Pitch int
	Lane  int
}

// Listener receives everything the engine decides. Calls happen on the
// goroutine driving Step and Press.
type Listener interface {
	Spawn(SpawnEvent)
	Hit(HitEvent)
	Miss(MissEvent)
	Finished()
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are ignored.
type ListenerFuncs struct {
	OnSpawn    func(SpawnEvent)
	OnHit      func(HitEvent)
	OnMiss     func(MissEvent)
	OnFinished func()
}

func (l ListenerFuncs) Spawn(e SpawnEvent) {
	if l.OnSpawn != nil {
		l.OnSpawn(e)
	}
}

func (l ListenerFuncs) Hit(e HitEvent) {
	if l.OnHit != nil {
		l.OnHit(e)
	}
}

func (l ListenerFuncs) Miss(e MissEvent) {
	if l.OnMiss != nil {
		l.OnMiss(e)
	}
}

func (l ListenerFuncs) Finished() {
	if l.OnFinished != nil {
		l.OnFinished()
	}
}
