package memoria

import "log/slog"

// buscarHoja baja por los niveles de tablas desde la raíz (marco 0) hasta el
// marco hoja de la página que contiene a la dirección. Una entrada en cero es
// un fallo: se consigue un marco con buscarMarcoLibre, se lo enlaza en la
// entrada del padre y se sigue bajando. En la hoja se restaura la página desde
// el respaldo antes de devolverla.
func (mv *MemoriaVirtual) buscarHoja(dirVirtual uint64) uint64 {
	pagina := mv.geo.numeroPagina(dirVirtual)
	marco := uint64(0)

	for nivel := 0; nivel < mv.geo.CantidadNiveles; nivel++ {
		indice := mv.geo.indiceNivel(dirVirtual, nivel)
		entrada := mv.fisica.LeerPalabra(marco*mv.geo.TamPagina() + indice)

		if entrada == 0 {
			nuevo := mv.buscarMarcoLibre(marco, pagina)
			mv.fisica.EscribirPalabra(marco*mv.geo.TamPagina()+indice, Palabra(nuevo))
			slog.Debug("Marco enlazado", "nivel", nivel, "padre", marco,
				"indice", indice, "marco", nuevo)
			marco = nuevo
		} else {
			marco = uint64(entrada)
		}
	}

	mv.fisica.Restaurar(marco, pagina)
	return marco
}
