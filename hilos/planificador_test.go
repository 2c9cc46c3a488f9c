package hilos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenorTidLibre(t *testing.T) {
	b := nuevaBiblioteca(1000)

	assert.Equal(t, 1, b.menorTidLibre())

	delete(b.tidsLibres, 1)
	delete(b.tidsLibres, 2)
	assert.Equal(t, 3, b.menorTidLibre())

	b.tidsLibres[1] = true
	assert.Equal(t, 1, b.menorTidLibre())

	for tid := 1; tid < MaxHilos; tid++ {
		delete(b.tidsLibres, tid)
	}
	assert.Equal(t, -1, b.menorTidLibre())
}

func TestColaDeListos(t *testing.T) {
	b := nuevaBiblioteca(1000)
	t1 := nuevoTCB(1, nil)
	t2 := nuevoTCB(2, nil)
	b.colaListos = []*TCB{t1, t2}

	assert.True(t, b.estaEnListos(t1))
	assert.True(t, b.removerDeListos(t1))
	assert.False(t, b.removerDeListos(t1))
	assert.False(t, b.estaEnListos(t1))

	assert.Same(t, t2, b.desencolarListo())
	assert.Nil(t, b.desencolarListo())
}

// El envejecimiento despierta en orden de tid y respeta a los bloqueados:
// el que estaba dormido y bloqueado queda sólo bloqueado.
func TestEnvejecerDurmientes(t *testing.T) {
	b := nuevaBiblioteca(1000)

	enCola := nuevoTCB(9, nil)
	b.colaListos = []*TCB{enCola}

	dormido3 := nuevoTCB(3, nil)
	dormido3.dormirRestante = 1
	dormido5 := nuevoTCB(5, nil)
	dormido5.dormirRestante = 1
	dormidoLargo := nuevoTCB(7, nil)
	dormidoLargo.dormirRestante = 2

	b.durmientes[3] = dormido3
	b.durmientes[5] = dormido5
	b.durmientes[7] = dormidoLargo
	b.bloqueados[5] = true

	b.envejecerDurmientes()

	// el 3 despierta detrás de los que ya estaban listos; el 5 sigue
	// bloqueado; al 7 le falta un quantum
	require.Len(t, b.colaListos, 2)
	assert.Equal(t, 9, b.colaListos[0].tid)
	assert.Equal(t, 3, b.colaListos[1].tid)

	assert.NotContains(t, b.durmientes, 3)
	assert.NotContains(t, b.durmientes, 5)
	assert.Contains(t, b.durmientes, 7)
	assert.True(t, b.bloqueados[5])
	assert.Equal(t, 1, dormidoLargo.dormirRestante)

	// al quantum siguiente despierta el que faltaba
	b.envejecerDurmientes()
	require.Len(t, b.colaListos, 3)
	assert.Equal(t, 7, b.colaListos[2].tid)
}

func TestDormirDespiertaLuegoDeLosQuantums(t *testing.T) {
	require.Equal(t, 0, Iniciar(5000))

	var antes, despues int
	var desperto bool
	var parar bool
	require.Equal(t, 1, Crear(func() {
		antes = QuantumsTotales()
		Dormir(2)
		despues = QuantumsTotales()
		desperto = true
		for !parar {
			TidActual()
		}
	}))

	esperarHasta(t, func() bool { return desperto })

	// dormir 2 quantums garantiza que pasaron al menos 2 antes de volver
	assert.GreaterOrEqual(t, despues-antes, 2)
	assert.GreaterOrEqual(t, QuantumsDe(1), 2)

	parar = true
}

// Un hilo dormido que además fue bloqueado no corre al vencer el sueño;
// recién al desbloquearlo vuelve a la cola.
func TestDormirRespetaElBloqueo(t *testing.T) {
	require.Equal(t, 0, Iniciar(5000))

	var corrio, desperto bool
	var parar bool
	require.Equal(t, 1, Crear(func() {
		corrio = true
		Dormir(2)
		desperto = true
		for !parar {
			TidActual()
		}
	}))

	esperarHasta(t, func() bool { return corrio })
	require.Equal(t, 0, Bloquear(1))

	// pasan quantums de sobra para el sueño y sigue sin correr
	base := QuantumsTotales()
	esperarHasta(t, func() bool { return QuantumsTotales() > base+4 })
	assert.False(t, desperto)

	require.Equal(t, 0, Desbloquear(1))
	esperarHasta(t, func() bool { return desperto })

	parar = true
}

// Un hilo dormido y bloqueado que se desbloquea antes de vencer el sueño
// sigue durmiendo hasta completarlo.
func TestDesbloquearAUnDormidoNoLoEncola(t *testing.T) {
	require.Equal(t, 0, Iniciar(1000000))

	b := bib
	trabajador := nuevoTCB(1, func() {})
	delete(b.tidsLibres, 1)
	b.hilos[1] = trabajador

	b.mascara.bloquear()
	trabajador.dormirRestante = 5
	b.durmientes[1] = trabajador
	b.bloqueados[1] = true
	b.mascara.desbloquear()

	require.Equal(t, 0, Desbloquear(1))

	b.mascara.bloquear()
	assert.False(t, b.bloqueados[1])
	assert.Contains(t, b.durmientes, 1)
	assert.Empty(t, b.colaListos)
	b.mascara.desbloquear()
}

func TestFinalizarAUnDormido(t *testing.T) {
	require.Equal(t, 0, Iniciar(5000))

	var corrio bool
	require.Equal(t, 1, Crear(func() {
		corrio = true
		Dormir(50)
	}))

	esperarHasta(t, func() bool { return corrio })
	require.Equal(t, 0, Finalizar(1))

	bib.mascara.bloquear()
	assert.NotContains(t, bib.hilos, 1)
	assert.NotContains(t, bib.durmientes, 1)
	assert.True(t, bib.tidsLibres[1])
	bib.mascara.desbloquear()

	assert.Equal(t, -1, QuantumsDe(1))
}
