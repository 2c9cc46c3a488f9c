package hilos

import (
	"runtime"
	"time"
)

// Motivos por los que se entra al despachador, como en el manejador original
// de la señal de planificación.
const (
	motivoInicio = iota
	motivoBloqueo
	motivoDormir
	motivoFinalizacion
	motivoExpropiacion
)

// armarTemporizador lanza el tic periódico del quantum. El ticker es
// periódico, así que una expropiación no necesita rearmado extra; una
// conmutación lo reinicia para que el hilo entrante arranque su quantum
// completo.
func (b *biblioteca) armarTemporizador() {
	b.ticker = time.NewTicker(time.Duration(b.quantumUsecs) * time.Microsecond)
	b.pararTicker = make(chan struct{})

	go func(ticker *time.Ticker, parar chan struct{}) {
		for {
			select {
			case <-parar:
				return
			case <-ticker.C:
				b.tic()
			}
		}
	}(b.ticker, b.pararTicker)
}

func (b *biblioteca) reiniciarTemporizador() {
	b.ticker.Reset(time.Duration(b.quantumUsecs) * time.Microsecond)
}

func (b *biblioteca) detenerTemporizador() {
	if b.ticker != nil {
		b.ticker.Stop()
		close(b.pararTicker)
		b.ticker = nil
	}
}

// tic es el manejador del vencimiento de quantum. Corre en la gorutina del
// temporizador: el camino sin conmutación (cola de listos vacía) se resuelve
// acá mismo; si hay que conmutar sólo deja la expropiación pendiente, y el
// hilo corriente la concreta en su próxima entrada a la máscara.
func (b *biblioteca) tic() {
	b.mascara.bloquear()
	defer b.mascara.desbloquear()

	if b.ejecutando == nil {
		return
	}
	if len(b.colaListos) == 0 {
		if !b.expropiacionPendiente {
			b.ejecutando.quantums++
			b.quantumsTotales++
			b.envejecerDurmientes()
		}
		return
	}
	b.expropiacionPendiente = true
}

// salirDeGuardia cierra la sección crítica de una entrada pública. Antes de
// soltar la máscara concreta una expropiación pendiente, de modo que todo
// retorno de la biblioteca es un punto de conmutación.
func (b *biblioteca) salirDeGuardia() {
	if b.expropiacionPendiente && b.ejecutando != nil {
		b.expropiacionPendiente = false
		b.conmutar(motivoExpropiacion)
	}
	b.mascara.desbloquear()
}

// conmutar guarda el contexto del hilo corriente, elige el próximo por orden
// FIFO y lo despacha. Corre siempre en la gorutina del hilo corriente, con la
// máscara tomada. Si la cola de listos está vacía en el inicio o en una
// expropiación, contabiliza el quantum y retorna sin conmutar; si conmuta,
// para todo motivo salvo finalización retorna recién cuando el hilo saliente
// vuelve a ser despachado.
func (b *biblioteca) conmutar(motivo int) {
	anterior := b.ejecutando

	switch motivo {
	case motivoDormir:
		b.durmientes[anterior.tid] = anterior
	case motivoBloqueo:
		// el llamador ya lo anotó como bloqueado; queda fuera de toda cola
	case motivoFinalizacion:
		// el llamador ya liberó sus recursos del registro
	case motivoInicio, motivoExpropiacion:
		if len(b.colaListos) == 0 {
			// nadie a quien cederle la CPU: contabilizar y seguir
			anterior.quantums++
			b.quantumsTotales++
			b.envejecerDurmientes()
			return
		}
		b.colaListos = append(b.colaListos, anterior)
	}

	siguiente := b.desencolarListo()
	if siguiente == nil {
		errorSistema("no hay hilos listos para despachar")
		return
	}

	b.ejecutando = siguiente
	siguiente.quantums++
	b.quantumsTotales++
	b.envejecerDurmientes()
	b.reiniciarTemporizador()
	b.expropiacionPendiente = false

	siguiente.despachar()
	b.mascara.desbloquear()

	if motivo == motivoFinalizacion {
		// el hilo finalizado no vuelve a ejecutar
		return
	}

	anterior.esperarDespacho()
	if anterior.muerto {
		// otro hilo lo finalizó mientras estaba suspendido
		runtime.Goexit()
	}
	b.mascara.bloquear()
}

// envejecerDurmientes descuenta un quantum a cada hilo dormido. El que llega
// a cero sale del conjunto de durmientes y, si no está bloqueado, pasa al
// final de la cola de listos.
func (b *biblioteca) envejecerDurmientes() {
	for _, tid := range b.tidsDurmientes() {
		t := b.durmientes[tid]
		t.dormirRestante--
		if t.dormirRestante > 0 {
			continue
		}
		delete(b.durmientes, tid)
		if !b.bloqueados[tid] {
			b.colaListos = append(b.colaListos, t)
		}
	}
}

// correr es el cuerpo de la gorutina de un hilo creado: espera su primer
// despacho, toma y suelta la máscara (el contexto nuevo nace con la máscara
// vacía) y ejecuta el punto de entrada. Un punto de entrada que retorna
// equivale a autofinalizarse.
func (b *biblioteca) correr(t *TCB) {
	t.esperarDespacho()
	if t.muerto {
		return
	}
	b.mascara.bloquear()
	b.mascara.desbloquear()

	t.puntoEntrada()
	Finalizar(t.tid)
}
