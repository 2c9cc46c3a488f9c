package hilos

// TCB es el bloque de control de un hilo de usuario: identidad, contadores y
// el contexto para reanudarlo.
type TCB struct {
	tid            int
	quantums       int // quantums consumidos por este hilo
	dormirRestante int // quantums que le faltan dormir
	puntoEntrada   func()
	pila           []byte // pila reservada del hilo, liberada al finalizar
	muerto         bool   // finalizado por otro hilo mientras estaba suspendido

	// despacho es el contexto de reanudación. El protocolo replica a
	// sigsetjmp/siglongjmp: "guardar" es quedar esperando sobre el canal y
	// volver recién al ser despachado de nuevo; "restaurar" es despachar al
	// destino y no volver a ejecutar como hilo corriente.
	despacho chan struct{}
}

func nuevoTCB(tid int, puntoEntrada func()) *TCB {
	t := &TCB{
		tid:          tid,
		puntoEntrada: puntoEntrada,
		despacho:     make(chan struct{}, 1),
	}
	if tid != 0 {
		t.pila = make([]byte, TamPila)
	}
	return t
}

// esperarDespacho es el lado "guardar" del contexto: bloquea hasta que otro
// hilo lo despache. El retorno es la segunda vuelta del contexto guardado.
func (t *TCB) esperarDespacho() {
	<-t.despacho
}

// despachar es el lado "restaurar": despierta al hilo destino. El canal tiene
// capacidad 1, así el despacho nunca se pierde aunque el destino todavía no
// esté esperando.
func (t *TCB) despachar() {
	t.despacho <- struct{}{}
}
