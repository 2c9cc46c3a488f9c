package memoria

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func armarMemoria(t *testing.T, geo Geometria) (*MemoriaVirtual, *Fisica) {
	t.Helper()
	require.NoError(t, geo.Validar())

	fisica := NuevaFisica(geo, NuevoRespaldoEnMemoria())
	mv := NuevaMemoriaVirtual(geo, fisica)
	mv.Inicializar()
	return mv, fisica
}

// verificarArbol recorre el árbol de tablas y verifica que ningún marco esté
// referenciado dos veces, que la raíz nunca aparezca como entrada y que todo
// marco referenciado exista
func verificarArbol(t *testing.T, mv *MemoriaVirtual, fisica *Fisica) {
	t.Helper()
	vistos := make(map[uint64]bool)

	var recorrer func(marco uint64, nivel int)
	recorrer = func(marco uint64, nivel int) {
		if nivel == mv.geo.CantidadNiveles {
			return
		}
		for i := uint64(0); i < mv.geo.TamPagina(); i++ {
			valor := fisica.marcos[marco*mv.geo.TamPagina()+i]
			if valor == 0 {
				continue
			}
			hijo := uint64(valor)
			require.NotZero(t, hijo, "la raíz no puede ser hija")
			require.Less(t, hijo, uint64(mv.geo.CantidadMarcos), "marco inexistente referenciado")
			require.False(t, vistos[hijo], "marco %d referenciado dos veces", hijo)
			vistos[hijo] = true
			recorrer(hijo, nivel+1)
		}
	}
	recorrer(0, 0)
}

func TestInicializarDejaLaRaizEnCero(t *testing.T) {
	geo := GeometriaPorDefecto()
	fisica := NuevaFisica(geo, NuevoRespaldoEnMemoria())
	for i := uint64(0); i < geo.TamPagina(); i++ {
		fisica.EscribirPalabra(i, Palabra(i+7))
	}

	mv := NuevaMemoriaVirtual(geo, fisica)
	mv.Inicializar()

	for i := uint64(0); i < geo.TamPagina(); i++ {
		assert.Equal(t, Palabra(0), fisica.marcos[i], "entrada %d de la raíz", i)
	}
}

func TestEscrituraYLecturaBasica(t *testing.T) {
	mv, fisica := armarMemoria(t, GeometriaPorDefecto())

	require.True(t, mv.Escribir(13, 999))
	valor, ok := mv.Leer(13)
	require.True(t, ok)
	assert.Equal(t, Palabra(999), valor)

	verificarArbol(t, mv, fisica)
}

func TestDireccionFueraDeRango(t *testing.T) {
	mv, fisica := armarMemoria(t, GeometriaPorDefecto())
	limite := mv.geo.TamMemoriaVirtual()

	assert.False(t, mv.Escribir(limite, 1))
	_, ok := mv.Leer(limite)
	assert.False(t, ok)

	// sin efectos: ninguna tabla se creó
	metricas := fisica.Metricas()
	assert.Zero(t, metricas.Escrituras-int(mv.geo.TamPagina()), "sólo las escrituras de Inicializar")
}

// Con 6 marcos y 4 niveles, la tercera escritura obliga a desalojar; la
// lectura posterior de la primera dirección tiene que volver desde el
// respaldo con su valor original.
func TestRoundTripConDesalojo(t *testing.T) {
	geo := Geometria{
		AnchoDireccionVirtual: 20,
		AnchoOffset:           4,
		CantidadNiveles:       4,
		CantidadMarcos:        6,
	}
	mv, fisica := armarMemoria(t, geo)

	require.True(t, mv.Escribir(13, 600))
	require.True(t, mv.Escribir(0x0080, 700))
	require.True(t, mv.Escribir(0x0FF0, 800))

	assert.GreaterOrEqual(t, fisica.Metricas().Desalojos, 1, "la tercera escritura debe desalojar")

	valor, ok := mv.Leer(13)
	require.True(t, ok)
	assert.Equal(t, Palabra(600), valor)

	valor, ok = mv.Leer(0x0FF0)
	require.True(t, ok)
	assert.Equal(t, Palabra(800), valor)

	verificarArbol(t, mv, fisica)
}

// Al vaciarse una tabla intermedia por el desalojo de su única hoja, la
// próxima falta la recicla en lugar de desalojar de nuevo.
func TestReciclajeDeTablaVacia(t *testing.T) {
	geo := Geometria{
		AnchoDireccionVirtual: 12,
		AnchoOffset:           4,
		CantidadNiveles:       2,
		CantidadMarcos:        6,
	}
	mv, fisica := armarMemoria(t, geo)

	require.True(t, mv.Escribir(0x000, 1)) // página 0x00
	require.True(t, mv.Escribir(0x100, 2)) // página 0x10
	require.True(t, mv.Escribir(0x110, 3)) // página 0x11

	require.Zero(t, fisica.Metricas().Desalojos)

	// página 0x80: usa los 6 marcos, desaloja la página 0 y deja vacía la
	// tabla que la contenía; esa tabla se recicla para la nueva hoja
	require.True(t, mv.Escribir(0x800, 4))
	assert.Equal(t, 1, fisica.Metricas().Desalojos, "un solo desalojo: la tabla vacía cubre la segunda falta")

	// las páginas que no se tocaron siguen en su lugar
	valor, ok := mv.Leer(0x100)
	require.True(t, ok)
	assert.Equal(t, Palabra(2), valor)

	valor, ok = mv.Leer(0x110)
	require.True(t, ok)
	assert.Equal(t, Palabra(3), valor)

	assert.Equal(t, 1, fisica.Metricas().Desalojos, "las relecturas no desalojan")
	verificarArbol(t, mv, fisica)
}

// La víctima es la hoja de mayor distancia cíclica; un empate lo gana la
// primera encontrada en el recorrido.
func TestVictimaPorDistanciaCiclicaConEmpate(t *testing.T) {
	geo := Geometria{
		AnchoDireccionVirtual: 12,
		AnchoOffset:           4,
		CantidadNiveles:       2,
		CantidadMarcos:        4,
	}
	mv, fisica := armarMemoria(t, geo)
	respaldo := fisica.respaldo.(*RespaldoEnMemoria)

	// las dos páginas comparten la tabla de nivel 1, así el árbol entra en
	// los 4 marcos sin desalojar
	require.True(t, mv.Escribir(0x110, 11)) // página 0x11
	require.True(t, mv.Escribir(0x130, 13)) // página 0x13
	require.Zero(t, fisica.Metricas().Desalojos)

	// página 0x12 equidista de 0x11 y 0x13: cae la 0x11 por orden de recorrido
	require.True(t, mv.Escribir(0x120, 12))

	require.Equal(t, 1, fisica.Metricas().Desalojos)
	_, evicto11 := respaldo.paginas[0x11]
	_, evicto13 := respaldo.paginas[0x13]
	assert.True(t, evicto11, "la página 0x11 es la primera del recorrido")
	assert.False(t, evicto13)

	// la página que quedó en memoria conserva su valor sin nuevas faltas
	valor, ok := mv.Leer(0x130)
	require.True(t, ok)
	assert.Equal(t, Palabra(13), valor)
	assert.Equal(t, 1, fisica.Metricas().Desalojos)
}

// Ronda larga con churn de desalojos: todo lo escrito se tiene que releer
// igual, sin importar cuántas páginas pasaron por el respaldo.
func TestRoundTripAleatorio(t *testing.T) {
	geo := Geometria{
		AnchoDireccionVirtual: 12,
		AnchoOffset:           4,
		CantidadNiveles:       2,
		CantidadMarcos:        8,
	}
	mv, fisica := armarMemoria(t, geo)

	rng := rand.New(rand.NewSource(42))
	esperado := make(map[uint64]Palabra)

	for i := 0; i < 2000; i++ {
		dir := uint64(rng.Intn(int(geo.TamMemoriaVirtual())))
		valor := Palabra(rng.Int31())
		require.True(t, mv.Escribir(dir, valor))
		esperado[dir] = valor

		if i%100 == 0 {
			verificarArbol(t, mv, fisica)
		}
	}

	for dir, valor := range esperado {
		leido, ok := mv.Leer(dir)
		require.True(t, ok)
		require.Equal(t, valor, leido, "dirección %#x", dir)
	}

	assert.Greater(t, fisica.Metricas().Desalojos, 0, "con 8 marcos el churn es inevitable")
	verificarArbol(t, mv, fisica)
}
