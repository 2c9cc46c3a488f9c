package memoria

import "log/slog"

// Búsqueda de un marco libre ante un fallo de página. Un único recorrido en
// profundidad del árbol de tablas junta las tres salidas posibles, que se
// consultan en orden: una tabla vacía para reciclar, el primer marco nunca
// usado (marcoMaximo+1), o la hoja víctima de mayor distancia cíclica.

type busquedaMarco struct {
	marcoExcluido  uint64 // marco desde el que está parado el caminante: no elegible
	paginaEntrante uint64 // página que se está por traer

	// caso 1: tabla sin entradas
	vacioHallado bool
	marcoVacio   uint64
	padreVacio   uint64 // dirección física de la entrada del padre, para desenlazar

	// caso 2: marco más alto visto como entrada
	marcoMaximo uint64

	// caso 3: hoja con mayor distancia cíclica
	distanciaMax  uint64
	marcoVictima  uint64
	paginaVictima uint64
	padreVictima  uint64
}

// distanciaCiclica mide la distancia entre dos páginas sobre el anillo de
// CantidadPaginas posiciones
func (g Geometria) distanciaCiclica(a uint64, b uint64) uint64 {
	var abs uint64
	if a > b {
		abs = a - b
	} else {
		abs = b - a
	}
	if g.CantidadPaginas()-abs < abs {
		return g.CantidadPaginas() - abs
	}
	return abs
}

// recorrerArbol baja por el árbol de tablas acumulando los tres candidatos.
// marco es el frame visitado, pagina el prefijo de página acumulado hasta acá,
// padre la dirección física de la entrada que apunta a este frame. Corta
// apenas aparece una tabla vacía.
func (mv *MemoriaVirtual) recorrerArbol(b *busquedaMarco, marco uint64, pagina uint64, padre uint64, nivel int) {
	if b.vacioHallado {
		return
	}
	if nivel == mv.geo.CantidadNiveles {
		// hoja: candidata a víctima. El empate lo gana la primera encontrada.
		distancia := mv.geo.distanciaCiclica(b.paginaEntrante, pagina)
		if distancia > b.distanciaMax {
			b.distanciaMax = distancia
			b.marcoVictima = marco
			b.paginaVictima = pagina
			b.padreVictima = padre
		}
		return
	}

	tieneHijos := false
	for i := uint64(0); i < mv.geo.TamPagina(); i++ {
		valor := mv.fisica.LeerPalabra(marco*mv.geo.TamPagina() + i)
		if valor == 0 {
			continue
		}
		tieneHijos = true
		if uint64(valor) > b.marcoMaximo {
			b.marcoMaximo = uint64(valor)
		}
		mv.recorrerArbol(b, uint64(valor), (pagina<<mv.geo.AnchoOffset)+i,
			marco*mv.geo.TamPagina()+i, nivel+1)
		if b.vacioHallado {
			return
		}
	}

	if !tieneHijos && marco != b.marcoExcluido {
		b.marcoVacio = marco
		b.padreVacio = padre
		b.vacioHallado = true
	}
}

// limpiarTabla pone en cero todas las palabras del marco
func (mv *MemoriaVirtual) limpiarTabla(marco uint64) {
	for i := uint64(0); i < mv.geo.TamPagina(); i++ {
		mv.fisica.EscribirPalabra(marco*mv.geo.TamPagina()+i, 0)
	}
}

// elegirMarcoPorCasos resuelve la búsqueda en el orden de los tres casos y
// deja el marco elegido desenlazado de su padre y listo para usar
func (mv *MemoriaVirtual) elegirMarcoPorCasos(b *busquedaMarco) uint64 {
	// caso 1: una tabla vacía se recicla desenlazándola de su padre
	if b.vacioHallado {
		mv.fisica.EscribirPalabra(b.padreVacio, 0)
		slog.Debug("Marco obtenido por tabla vacía", "marco", b.marcoVacio)
		return b.marcoVacio
	}

	// caso 2: queda un marco nunca usado
	if b.marcoMaximo+1 < uint64(mv.geo.CantidadMarcos) {
		mv.limpiarTabla(b.marcoMaximo + 1)
		slog.Debug("Marco obtenido sin uso previo", "marco", b.marcoMaximo+1)
		return b.marcoMaximo + 1
	}

	// caso 3: desalojar la hoja de mayor distancia cíclica
	mv.fisica.Desalojar(b.marcoVictima, b.paginaVictima)
	mv.limpiarTabla(b.marcoVictima)
	mv.fisica.EscribirPalabra(b.padreVictima, 0)
	slog.Debug("Marco obtenido por desalojo",
		"marco", b.marcoVictima, "pagina_victima", b.paginaVictima)
	return b.marcoVictima
}

// buscarMarcoLibre recorre el árbol completo desde la raíz y devuelve un marco
// usable para enlazar bajo marcoExcluido. El marco excluido es aquel desde el
// que el caminante está enlazando: elegirlo desarmaría el camino activo.
func (mv *MemoriaVirtual) buscarMarcoLibre(marcoExcluido uint64, paginaEntrante uint64) uint64 {
	b := &busquedaMarco{
		marcoExcluido:  marcoExcluido,
		paginaEntrante: paginaEntrante,
	}
	mv.recorrerArbol(b, 0, 0, 0, 0)
	return mv.elegirMarcoPorCasos(b)
}
