package main

// MemoriaConfig representa la configuración del módulo Memoria
type MemoriaConfig struct {
	IPMemoria             string `json:"IP_MEMORIA"`
	PuertoMemoria         int    `json:"PUERTO_MEMORIA"`
	LogLevel              string `json:"LOG_LEVEL"`
	AnchoDireccionVirtual int    `json:"ANCHO_DIRECCION_VIRTUAL"` // bits de dirección virtual
	AnchoOffset           int    `json:"ANCHO_OFFSET"`            // bits de offset por página
	CantidadNiveles       int    `json:"CANTIDAD_NIVELES"`        // niveles de tabla de páginas
	CantidadMarcos        int    `json:"CANTIDAD_MARCOS"`         // marcos físicos
	RetardoMemoria        int    `json:"RETARDO_MEMORIA"`         // retardo de acceso a memoria en ms
	RetardoSwap           int    `json:"RETARDO_SWAP"`            // retardo de acceso a swap en ms; se carga pero ningún handler lo aplica
	SwapfilePath          string `json:"SWAPFILE_PATH"`           // ruta al archivo de SWAP
}

var config *MemoriaConfig
