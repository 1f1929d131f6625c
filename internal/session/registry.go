// Package session mantiene el registro acotado de estados de diálogo por
// usuario y su persistencia opcional en redis.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"duobot/internal/domain"
)

// Policy define qué entradas se desalojan al superar el límite.
type Policy string

const (
	// PolicyOldest desaloja por orden de inserción.
	PolicyOldest Policy = "oldest"
	// PolicyLeastEngaged desaloja las sesiones con menos historial.
	PolicyLeastEngaged Policy = "least_engaged"
)

// ParsePolicy valida el valor de configuración.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyOldest, PolicyLeastEngaged:
		return Policy(s), nil
	}
	return "", errors.New("unknown eviction policy: " + s)
}

type entry struct {
	mu         sync.Mutex
	state      *domain.DialogueState
	seq        uint64
	lastActive time.Time
	history    int // longitud de historial observada en el último turno

	// Los guardados de snapshot corren fuera del camino de la petición;
	// saveMu los serializa y saveSeq/savedSeq descartan los que llegan tarde
	// para que un clon viejo nunca pise uno más nuevo.
	saveMu   sync.Mutex
	saveSeq  uint64
	savedSeq uint64
}

// Registry mapea uid → DialogueState con tamaño acotado. La contabilidad
// (alta, desalojo, toque de actividad) va bajo un único lock grueso; la
// mutación de cada estado va bajo el lock exclusivo de su entrada, de modo
// que dos peticiones del mismo usuario no intercalan su avance y usuarios
// distintos progresan en paralelo.
type Registry struct {
	mu        sync.Mutex
	entries   map[string]*entry
	limit     int
	policy    Policy
	seq       uint64
	snapshots SnapshotStore
	logger    *zap.Logger
}

// NewRegistry crea un registro con límite de sesiones y política de desalojo.
// snapshots puede ser nil (solo memoria).
func NewRegistry(limit int, policy Policy, snapshots SnapshotStore, logger *zap.Logger) *Registry {
	if limit <= 0 {
		limit = 100
	}
	if policy == "" {
		policy = PolicyOldest
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		entries:   make(map[string]*entry),
		limit:     limit,
		policy:    policy,
		snapshots: snapshots,
		logger:    logger,
	}
}

// Do ejecuta fn con el estado del uid bajo su alcance exclusivo. Crea el
// estado en el primer mensaje, restaurándolo del snapshot si existe. Tras fn
// persiste una copia fuera del camino de la petición.
func (r *Registry) Do(ctx context.Context, uid, displayName string, fn func(state *domain.DialogueState)) {
	e := r.acquire(uid)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil {
		e.state = r.restoreOrNew(ctx, uid, displayName)
	}
	fn(e.state)

	r.mu.Lock()
	e.history = len(e.state.History)
	r.mu.Unlock()

	if r.snapshots != nil {
		e.saveSeq++
		seq := e.saveSeq
		clone := e.state.Clone()
		go func() {
			e.saveMu.Lock()
			defer e.saveMu.Unlock()
			if seq <= e.savedSeq {
				return // ya se guardó un turno posterior
			}
			e.savedSeq = seq

			saveCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := r.snapshots.Save(saveCtx, uid, clone); err != nil {
				r.logger.Warn("session snapshot save failed", zap.String("uid", uid), zap.Error(err))
			}
		}()
	}
}

// acquire localiza o crea la entrada del uid y actualiza la contabilidad.
func (r *Registry) acquire(uid string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[uid]
	if !ok {
		r.seq++
		e = &entry{seq: r.seq, lastActive: time.Now().UTC()}
		r.entries[uid] = e
		r.evictLocked(uid)
		return e
	}
	e.lastActive = time.Now().UTC()
	return e
}

func (r *Registry) restoreOrNew(ctx context.Context, uid, displayName string) *domain.DialogueState {
	if r.snapshots != nil {
		loadCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		state, err := r.snapshots.Load(loadCtx, uid)
		if err == nil {
			return state
		}
		if !errors.Is(err, ErrNoSnapshot) {
			r.logger.Warn("session snapshot load failed", zap.String("uid", uid), zap.Error(err))
		}
	}
	return domain.NewDialogueState(displayName)
}

// evictLocked desaloja entradas hasta volver al límite. Nunca desaloja la
// sesión más recientemente activa ni la que se está dando de alta.
func (r *Registry) evictLocked(keep string) {
	for len(r.entries) > r.limit {
		// Con reloj de baja resolución dos altas seguidas pueden compartir
		// timestamp; seq desempata para que la exención caiga en una sola
		// entrada y el registro vuelva siempre al límite.
		var mostRecent string
		var mostRecentAt time.Time
		var mostRecentSeq uint64
		for uid, e := range r.entries {
			if e.lastActive.After(mostRecentAt) ||
				(e.lastActive.Equal(mostRecentAt) && e.seq > mostRecentSeq) {
				mostRecent, mostRecentAt, mostRecentSeq = uid, e.lastActive, e.seq
			}
		}

		victim := ""
		var victimEntry *entry
		for uid, e := range r.entries {
			if uid == keep || uid == mostRecent {
				continue
			}
			if victimEntry == nil || r.less(e, victimEntry) {
				victim, victimEntry = uid, e
			}
		}
		if victim == "" {
			return
		}
		delete(r.entries, victim)
		r.logger.Info("session evicted",
			zap.String("uid", victim),
			zap.String("policy", string(r.policy)),
			zap.Int("size", len(r.entries)),
		)
	}
}

func (r *Registry) less(a, b *entry) bool {
	if r.policy == PolicyLeastEngaged {
		if a.history != b.history {
			return a.history < b.history
		}
	}
	return a.seq < b.seq
}

// Reset elimina la sesión del uid y su snapshot.
func (r *Registry) Reset(ctx context.Context, uid string) {
	r.mu.Lock()
	delete(r.entries, uid)
	r.mu.Unlock()

	if r.snapshots != nil {
		if err := r.snapshots.Delete(ctx, uid); err != nil {
			r.logger.Warn("session snapshot delete failed", zap.String("uid", uid), zap.Error(err))
		}
	}
}

// Len devuelve la cantidad de sesiones retenidas.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
