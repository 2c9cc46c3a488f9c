package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sisoputnfrba/tp-2025-2c-LosSegfaulteados/memoria"
	"github.com/sisoputnfrba/tp-2025-2c-LosSegfaulteados/utils"
)

var (
	modulo         *utils.Modulo
	memoriaVirtual *memoria.MemoriaVirtual
	dispositivo    *memoria.Fisica
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Uso: %s <archivo_configuracion>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Ejemplo: %s configs/memoria-config.json\n", os.Args[0])
		os.Exit(1)
	}

	utils.InicializarLogger("INFO", "Memoria")
	utils.InfoLog.Info("Iniciando módulo Memoria")

	inicializarModulo()

	utils.InfoLog.Info("Memoria inicializada correctamente")

	// Mantener el programa corriendo
	select {}
}

func inicializarModulo() {
	rutaConfig := os.Args[1]

	if _, err := os.Stat(rutaConfig); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: El archivo de configuración no existe: %s\n", rutaConfig)
		os.Exit(1)
	}

	modulo = utils.NuevoModulo("Memoria", rutaConfig)
	config = utils.CargarConfiguracion[MemoriaConfig](rutaConfig)

	utils.InicializarLogger(config.LogLevel, "Memoria")
	utils.InfoLog.Info("Configuración cargada", "nivel_log", config.LogLevel, "config_path", rutaConfig)

	geo := memoria.Geometria{
		AnchoDireccionVirtual: config.AnchoDireccionVirtual,
		AnchoOffset:           config.AnchoOffset,
		CantidadNiveles:       config.CantidadNiveles,
		CantidadMarcos:        config.CantidadMarcos,
	}
	if err := geo.Validar(); err != nil {
		utils.ErrorLog.Error("Geometría de memoria inválida", "error", err)
		os.Exit(1)
	}

	respaldo, err := memoria.NuevoRespaldoArchivo(config.SwapfilePath, geo)
	if err != nil {
		utils.ErrorLog.Error("No se pudo inicializar el archivo de SWAP", "error", err)
		os.Exit(1)
	}

	dispositivo = memoria.NuevaFisica(geo, respaldo)
	memoriaVirtual = memoria.NuevaMemoriaVirtual(geo, dispositivo)
	memoriaVirtual.Inicializar()

	utils.InfoLog.Info("Memoria virtual armada",
		"tam_pagina", geo.TamPagina(),
		"niveles", geo.CantidadNiveles,
		"marcos", geo.CantidadMarcos,
		"paginas", geo.CantidadPaginas())

	registrarHandlers()
	modulo.IniciarServidor(config.IPMemoria, config.PuertoMemoria)
}

func registrarHandlers() {
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeHandshake), "handshake", handlerHandshake)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeLeer), "default", handlerLeer)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeEscribir), "default", handlerEscribir)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeInicializar), "default", handlerInicializar)
	modulo.RegistrarHandler(strconv.Itoa(utils.MensajeMetricas), "default", handlerMetricas)

	utils.InfoLog.Info("Handlers registrados correctamente")
}
