package memoria

import (
	"encoding/binary"
	"io"
	"os"
	"sync"

	"github.com/sisoputnfrba/tp-2025-2c-LosSegfaulteados/utils"
)

// RespaldoArchivo guarda las páginas desalojadas en un archivo de SWAP.
// Cada página ocupa una posición fija: pagina * TamPagina * 4 bytes, palabras
// en little endian. El mapa enUso distingue una página guardada de una que
// nunca se desalojó (esa no se recupera: no se toca el archivo ni el destino).
type RespaldoArchivo struct {
	ruta      string
	tamPagina uint64
	enUso     map[uint64]bool
	mutex     sync.Mutex
}

// NuevoRespaldoArchivo crea el respaldo sobre el archivo dado, truncándolo
func NuevoRespaldoArchivo(ruta string, geo Geometria) (*RespaldoArchivo, error) {
	archivo, err := os.OpenFile(ruta, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		utils.ErrorLog.Error("Error creando archivo SWAP", "archivo", ruta, "error", err)
		return nil, err
	}
	archivo.Close()

	utils.InfoLog.Info("Archivo SWAP inicializado", "archivo", ruta)
	return &RespaldoArchivo{
		ruta:      ruta,
		tamPagina: geo.TamPagina(),
		enUso:     make(map[uint64]bool),
	}, nil
}

func (r *RespaldoArchivo) offsetDe(pagina uint64) int64 {
	return int64(pagina * r.tamPagina * 4)
}

// Guardar escribe la página en su posición del archivo de SWAP
func (r *RespaldoArchivo) Guardar(pagina uint64, datos []Palabra) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	archivo, err := os.OpenFile(r.ruta, os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		utils.ErrorLog.Error("Error abriendo archivo SWAP", "archivo", r.ruta, "error", err)
		os.Exit(1)
	}
	defer archivo.Close()

	buffer := make([]byte, len(datos)*4)
	for i, palabra := range datos {
		binary.LittleEndian.PutUint32(buffer[i*4:], uint32(palabra))
	}

	if _, err := archivo.WriteAt(buffer, r.offsetDe(pagina)); err != nil {
		utils.ErrorLog.Error("Error escribiendo en SWAP", "archivo", r.ruta,
			"pagina", pagina, "error", err)
		os.Exit(1)
	}

	r.enUso[pagina] = true
	utils.InfoLog.Debug("Página bajada a SWAP", "pagina", pagina, "offset", r.offsetDe(pagina))
}

// Recuperar lee la página del archivo y la marca como fuera de uso; si la
// página nunca se guardó no toca el destino
func (r *RespaldoArchivo) Recuperar(pagina uint64, destino []Palabra) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.enUso[pagina] {
		return false
	}

	archivo, err := os.Open(r.ruta)
	if err != nil {
		utils.ErrorLog.Error("Error abriendo archivo SWAP", "archivo", r.ruta, "error", err)
		os.Exit(1)
	}
	defer archivo.Close()

	buffer := make([]byte, len(destino)*4)
	if _, err := archivo.ReadAt(buffer, r.offsetDe(pagina)); err != nil && err != io.EOF {
		utils.ErrorLog.Error("Error leyendo de SWAP", "archivo", r.ruta,
			"pagina", pagina, "error", err)
		os.Exit(1)
	}

	for i := range destino {
		destino[i] = Palabra(binary.LittleEndian.Uint32(buffer[i*4:]))
	}

	delete(r.enUso, pagina)
	utils.InfoLog.Debug("Página subida desde SWAP", "pagina", pagina)
	return true
}
