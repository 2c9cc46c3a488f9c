// Package memoria implementa un traductor de direcciones virtuales sobre un
// pool chico de marcos físicos respaldado por un almacenamiento tipo disco.
// Las tablas de páginas forman un árbol cuyos nodos son marcos; ante un fallo
// se consigue un marco con un único recorrido del árbol (tabla vacía, marco
// sin uso, o desalojo por distancia cíclica).
package memoria

import "log/slog"

// MemoriaVirtual es el traductor. No guarda estado propio: todo vive en el
// dispositivo físico. Las operaciones no son reentrantes; el llamador
// serializa los accesos.
type MemoriaVirtual struct {
	geo    Geometria
	fisica MemoriaFisica
}

// NuevaMemoriaVirtual arma el traductor sobre el dispositivo dado
func NuevaMemoriaVirtual(geo Geometria, fisica MemoriaFisica) *MemoriaVirtual {
	return &MemoriaVirtual{geo: geo, fisica: fisica}
}

// Geometria devuelve los parámetros de arquitectura del traductor
func (mv *MemoriaVirtual) Geometria() Geometria {
	return mv.geo
}

// Inicializar pone en cero todas las entradas de la tabla raíz (marco 0)
func (mv *MemoriaVirtual) Inicializar() {
	for i := uint64(0); i < mv.geo.TamPagina(); i++ {
		mv.fisica.EscribirPalabra(i, 0)
	}
	slog.Debug("Memoria virtual inicializada", "entradas_raiz", mv.geo.TamPagina())
}

// Leer devuelve la palabra en la dirección virtual dada. El segundo valor es
// false si la dirección queda fuera del espacio virtual; en ese caso no hay
// ningún efecto.
func (mv *MemoriaVirtual) Leer(dirVirtual uint64) (Palabra, bool) {
	if dirVirtual >= mv.geo.TamMemoriaVirtual() {
		return 0, false
	}
	hoja := mv.buscarHoja(dirVirtual)
	valor := mv.fisica.LeerPalabra(hoja*mv.geo.TamPagina() + mv.geo.desplazamiento(dirVirtual))
	return valor, true
}

// Escribir guarda la palabra en la dirección virtual dada. Devuelve false sin
// efectos si la dirección queda fuera del espacio virtual.
func (mv *MemoriaVirtual) Escribir(dirVirtual uint64, valor Palabra) bool {
	if dirVirtual >= mv.geo.TamMemoriaVirtual() {
		return false
	}
	hoja := mv.buscarHoja(dirVirtual)
	mv.fisica.EscribirPalabra(hoja*mv.geo.TamPagina()+mv.geo.desplazamiento(dirVirtual), valor)
	return true
}
