package memoria

// Descomposición de una dirección virtual: los AnchoOffset bits bajos son el
// desplazamiento dentro de la página, el resto es el número de página. Para la
// navegación, los bits de página se parten en índices por nivel, el más
// significativo primero; la raíz puede ser más angosta que el resto.

// desplazamiento devuelve el corrimiento dentro de la página
func (g Geometria) desplazamiento(dirVirtual uint64) uint64 {
	return dirVirtual & (g.TamPagina() - 1)
}

// numeroPagina devuelve todos los bits por encima del desplazamiento
func (g Geometria) numeroPagina(dirVirtual uint64) uint64 {
	return (dirVirtual >> g.AnchoOffset) & (g.CantidadPaginas() - 1)
}

// indiceNivel calcula el índice dentro de la tabla del nivel dado (0 = raíz)
func (g Geometria) indiceNivel(dirVirtual uint64, nivel int) uint64 {
	if nivel == 0 {
		mascara := uint64(1)<<g.anchoRaiz() - 1
		return mascara & (dirVirtual >> (g.CantidadNiveles * g.AnchoOffset))
	}
	mascara := uint64(1)<<g.AnchoOffset - 1
	return mascara & (dirVirtual >> ((g.CantidadNiveles - nivel) * g.AnchoOffset))
}
