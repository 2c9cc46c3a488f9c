package main

import (
	"fmt"
	"sync"

	"github.com/sisoputnfrba/tp-2025-2c-LosSegfaulteados/memoria"
	"github.com/sisoputnfrba/tp-2025-2c-LosSegfaulteados/utils"
)

// El traductor no es reentrante: todos los handlers serializan los accesos
var memoriaMutex sync.Mutex

// palabraDesdeJSON convierte el número del mensaje (JSON decodifica a
// float64) a una palabra del dispositivo
func palabraDesdeJSON(valor float64) memoria.Palabra {
	return memoria.Palabra(int32(valor))
}

func handlerHandshake(msg *utils.Mensaje) (interface{}, error) {
	utils.InfoLog.Info("Handshake recibido", "origen", msg.Origen)
	return map[string]interface{}{
		"modulo": "Memoria",
		"estado": "ok",
	}, nil
}

// extraerDireccion saca la dirección virtual de los datos del mensaje
func extraerDireccion(msg *utils.Mensaje) (uint64, error) {
	datos, ok := msg.Datos.(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("datos del mensaje con formato incorrecto")
	}
	direccion, ok := datos["direccion"].(float64)
	if !ok || direccion < 0 {
		return 0, fmt.Errorf("dirección no proporcionada o formato incorrecto")
	}
	return uint64(direccion), nil
}

func handlerLeer(msg *utils.Mensaje) (interface{}, error) {
	direccion, err := extraerDireccion(msg)
	if err != nil {
		utils.ErrorLog.Error("Solicitud de lectura inválida", "error", err)
		return map[string]interface{}{"error": err.Error()}, nil
	}

	utils.AplicarRetardo("lectura", config.RetardoMemoria)

	memoriaMutex.Lock()
	valor, ok := memoriaVirtual.Leer(direccion)
	memoriaMutex.Unlock()

	if !ok {
		utils.ErrorLog.Error("Dirección fuera del espacio virtual", "direccion", direccion)
		return map[string]interface{}{"error": "dirección fuera de rango"}, nil
	}

	utils.InfoLog.Info("Lectura atendida", "direccion", direccion, "valor", valor)
	return map[string]interface{}{"valor": valor}, nil
}

func handlerEscribir(msg *utils.Mensaje) (interface{}, error) {
	direccion, err := extraerDireccion(msg)
	if err != nil {
		utils.ErrorLog.Error("Solicitud de escritura inválida", "error", err)
		return map[string]interface{}{"error": err.Error()}, nil
	}

	datos := msg.Datos.(map[string]interface{})
	valor, ok := datos["valor"].(float64)
	if !ok {
		utils.ErrorLog.Error("Valor no proporcionado", "datos", datos)
		return map[string]interface{}{"error": "valor no proporcionado o formato incorrecto"}, nil
	}

	utils.AplicarRetardo("escritura", config.RetardoMemoria)

	memoriaMutex.Lock()
	escrito := memoriaVirtual.Escribir(direccion, palabraDesdeJSON(valor))
	memoriaMutex.Unlock()

	if !escrito {
		utils.ErrorLog.Error("Dirección fuera del espacio virtual", "direccion", direccion)
		return map[string]interface{}{"error": "dirección fuera de rango"}, nil
	}

	utils.InfoLog.Info("Escritura atendida", "direccion", direccion, "valor", int32(valor))
	return map[string]interface{}{"resultado": "ok"}, nil
}

func handlerInicializar(msg *utils.Mensaje) (interface{}, error) {
	utils.InfoLog.Info("Reinicio de tabla raíz solicitado", "origen", msg.Origen)

	memoriaMutex.Lock()
	memoriaVirtual.Inicializar()
	memoriaMutex.Unlock()

	return map[string]interface{}{"resultado": "ok"}, nil
}

func handlerMetricas(msg *utils.Mensaje) (interface{}, error) {
	memoriaMutex.Lock()
	metricas := dispositivo.Metricas()
	memoriaMutex.Unlock()

	utils.InfoLog.Info("Métricas consultadas",
		"lecturas", metricas.Lecturas,
		"escrituras", metricas.Escrituras,
		"desalojos", metricas.Desalojos,
		"restauraciones", metricas.Restauraciones)
	return metricas, nil
}
