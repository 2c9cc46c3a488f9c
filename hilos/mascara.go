package hilos

import "sync"

// mascaraSenial serializa las entradas públicas contra el temporizador, como
// enmascarar la señal de planificación alrededor de cada sección crítica.
// Cada entrada pública la toma al entrar y la suelta en todos sus caminos de
// salida. En una conmutación el hilo saliente la suelta recién después de
// despertar al sucesor, y el hilo reanudado la retoma antes de seguir.
type mascaraSenial struct {
	mu sync.Mutex
}

func (m *mascaraSenial) bloquear() {
	m.mu.Lock()
}

func (m *mascaraSenial) desbloquear() {
	m.mu.Unlock()
}
