package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSemaforoRespetaLaCapacidad(t *testing.T) {
	sem := NewSemaforo(2)

	assert.True(t, sem.TryWait())
	assert.True(t, sem.TryWait())
	assert.False(t, sem.TryWait(), "sin capacidad no debe conceder")

	sem.Signal()
	assert.True(t, sem.TryWait())
}

func TestSemaforoSignalNoExcedeLaCapacidad(t *testing.T) {
	sem := NewSemaforo(1)

	// señales de más no acumulan permisos
	sem.Signal()
	sem.Signal()

	assert.True(t, sem.TryWait())
	assert.False(t, sem.TryWait())
}

func TestSemaforoCapacidadInvalida(t *testing.T) {
	sem := NewSemaforo(0)

	assert.True(t, sem.TryWait(), "capacidad mínima de 1")
	assert.False(t, sem.TryWait())
}
