package main

// NucleoConfig representa la configuración del módulo Núcleo
type NucleoConfig struct {
	IPMemoria               string `json:"IP_MEMORIA"`
	PuertoMemoria           int    `json:"PUERTO_MEMORIA"`
	LogLevel                string `json:"LOG_LEVEL"`
	QuantumUsecs            int    `json:"QUANTUM_USECS"`             // duración del quantum
	CantidadTrabajadores    int    `json:"CANTIDAD_TRABAJADORES"`     // hilos de usuario a crear
	GradoMultiprogramacion  int    `json:"GRADO_MULTIPROGRAMACION"`   // trabajadores vivos a la vez
	EscriturasPorTrabajador int    `json:"ESCRITURAS_POR_TRABAJADOR"` // accesos de cada trabajador
}

var nucleoConfig *NucleoConfig
