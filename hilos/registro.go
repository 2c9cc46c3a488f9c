package hilos

import (
	"sort"
	"time"
)

// biblioteca es el estado global de la biblioteca de hilos: el registro de
// TCBs, las colas de planificación y el temporizador. Toda mutación ocurre
// bajo la máscara.
type biblioteca struct {
	mascara mascaraSenial

	ejecutando *TCB
	colaListos []*TCB // FIFO estricta
	durmientes map[int]*TCB
	bloqueados map[int]bool
	tidsLibres map[int]bool
	hilos      map[int]*TCB

	quantumsTotales int
	quantumUsecs    int

	expropiacionPendiente bool

	ticker      *time.Ticker
	pararTicker chan struct{}
}

var bib *biblioteca

func nuevaBiblioteca(quantumUsecs int) *biblioteca {
	b := &biblioteca{
		durmientes:   make(map[int]*TCB),
		bloqueados:   make(map[int]bool),
		tidsLibres:   make(map[int]bool),
		hilos:        make(map[int]*TCB),
		quantumUsecs: quantumUsecs,
	}
	// el tid 0 queda reservado para el contexto inicial
	for tid := 1; tid < MaxHilos; tid++ {
		b.tidsLibres[tid] = true
	}
	return b
}

// menorTidLibre devuelve el tid libre más chico, o -1 si no queda ninguno
func (b *biblioteca) menorTidLibre() int {
	menor := -1
	for tid := 1; tid < MaxHilos; tid++ {
		if b.tidsLibres[tid] {
			menor = tid
			break
		}
	}
	return menor
}

// desencolarListo saca y devuelve la cabeza de la cola de listos
func (b *biblioteca) desencolarListo() *TCB {
	if len(b.colaListos) == 0 {
		return nil
	}
	t := b.colaListos[0]
	b.colaListos = b.colaListos[1:]
	return t
}

// removerDeListos saca al hilo de la cola de listos si estaba en ella
func (b *biblioteca) removerDeListos(t *TCB) bool {
	for i, otro := range b.colaListos {
		if otro.tid == t.tid {
			b.colaListos = append(b.colaListos[:i], b.colaListos[i+1:]...)
			return true
		}
	}
	return false
}

// estaEnListos indica si el hilo ya figura en la cola de listos
func (b *biblioteca) estaEnListos(t *TCB) bool {
	for _, otro := range b.colaListos {
		if otro.tid == t.tid {
			return true
		}
	}
	return false
}

// tidsDurmientes devuelve los tids dormidos en orden creciente, para que el
// envejecimiento despierte siempre en el mismo orden
func (b *biblioteca) tidsDurmientes() []int {
	tids := make([]int, 0, len(b.durmientes))
	for tid := range b.durmientes {
		tids = append(tids, tid)
	}
	sort.Ints(tids)
	return tids
}

// liberarTodo suelta todos los recursos de la biblioteca y desarma las
// gorutinas de los hilos que quedaban suspendidos
func (b *biblioteca) liberarTodo() {
	for _, t := range b.hilos {
		t.pila = nil
		if t != b.ejecutando {
			t.muerto = true
			t.despachar()
		}
	}
	b.hilos = make(map[int]*TCB)
	b.durmientes = make(map[int]*TCB)
	b.bloqueados = make(map[int]bool)
	b.colaListos = nil
	b.ejecutando = nil
}
