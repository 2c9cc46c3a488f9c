// El módulo Núcleo es el cliente de demostración del sistema: multiplexa
// trabajadores como hilos de usuario y cada trabajador escribe y relee
// palabras contra el módulo Memoria por HTTP.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sisoputnfrba/tp-2025-2c-LosSegfaulteados/hilos"
	"github.com/sisoputnfrba/tp-2025-2c-LosSegfaulteados/utils"
)

var (
	memoriaClient *utils.HTTPClient

	// el grado de multiprogramación limita los trabajadores vivos a la vez
	semaforoMultiprogram *utils.Semaforo

	trabajadoresTerminados int
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Uso: %s <archivo_configuracion>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Ejemplo: %s configs/nucleo-config.json\n", os.Args[0])
		os.Exit(1)
	}

	utils.InicializarLogger("INFO", "Nucleo")
	utils.InfoLog.Info("Iniciando módulo Núcleo", "args", os.Args)

	nucleoConfig = utils.CargarConfiguracion[NucleoConfig](os.Args[1])
	utils.InicializarLogger(nucleoConfig.LogLevel, "Nucleo")

	memoriaClient = utils.NewHTTPClient(nucleoConfig.IPMemoria, nucleoConfig.PuertoMemoria, "Nucleo->Memoria")
	if err := conectarAMemoria(10); err != nil {
		utils.ErrorLog.Error("No se pudo conectar con Memoria", "error", err)
		os.Exit(1)
	}

	semaforoMultiprogram = utils.NewSemaforo(nucleoConfig.GradoMultiprogramacion)

	if hilos.Iniciar(nucleoConfig.QuantumUsecs) != 0 {
		utils.ErrorLog.Error("No se pudo iniciar la biblioteca de hilos",
			"quantum_usecs", nucleoConfig.QuantumUsecs)
		os.Exit(1)
	}
	utils.InfoLog.Info("Biblioteca de hilos iniciada", "quantum_usecs", nucleoConfig.QuantumUsecs)

	lanzarTrabajadores()

	// esperar a que terminen todos; cada consulta es un punto de conmutación
	for trabajadoresTerminados < nucleoConfig.CantidadTrabajadores {
		_ = hilos.QuantumsTotales()
	}

	utils.InfoLog.Info("Todos los trabajadores terminaron",
		"quantums_totales", hilos.QuantumsTotales())
	hilos.Finalizar(0)
}

// conectarAMemoria intenta conectar con el módulo de Memoria con reintentos
func conectarAMemoria(intentosMax int) error {
	utils.InfoLog.Info("Conectando con Memoria", "intentos_max", intentosMax)

	for i := 0; i < intentosMax; i++ {
		err := memoriaClient.VerificarConexion()
		if err == nil {
			utils.InfoLog.Info("Conexión establecida con Memoria")
			return nil
		}

		utils.InfoLog.Warn("Fallo al conectar con Memoria, reintentando", "intento", i+1, "error", err)
		time.Sleep(3 * time.Second)
	}

	return fmt.Errorf("no se pudo establecer conexión después de %d intentos", intentosMax)
}

// lanzarTrabajadores crea los hilos de usuario respetando el grado de
// multiprogramación: el que no consigue lugar espera cediendo su turno
func lanzarTrabajadores() {
	for n := 0; n < nucleoConfig.CantidadTrabajadores; n++ {
		numero := n
		for !semaforoMultiprogram.TryWait() {
			// sin lugar: dejar correr a los trabajadores vivos
			_ = hilos.QuantumsTotales()
		}

		tid := hilos.Crear(func() { trabajar(numero) })
		if tid == -1 {
			utils.ErrorLog.Error("No se pudo crear el trabajador", "numero", numero)
			semaforoMultiprogram.Signal()
			trabajadoresTerminados++
			continue
		}
		utils.InfoLog.Info("Trabajador creado", "numero", numero, "tid", tid)
	}
}

// trabajar es el cuerpo de cada hilo trabajador: escribe y relee palabras en
// un rango propio de direcciones del módulo Memoria
func trabajar(numero int) {
	tid := hilos.TidActual()
	base := uint64(numero) * 0x100

	for i := 0; i < nucleoConfig.EscriturasPorTrabajador; i++ {
		direccion := base + uint64(i)
		valor := numero*1000 + i

		_, err := memoriaClient.EnviarHTTPMensaje(utils.MensajeEscribir, "default", map[string]interface{}{
			"direccion": direccion,
			"valor":     valor,
		})
		if err != nil {
			utils.ErrorLog.Error("Error escribiendo en Memoria", "tid", tid, "direccion", direccion, "error", err)
			continue
		}

		respuesta, err := memoriaClient.EnviarHTTPMensaje(utils.MensajeLeer, "default", map[string]interface{}{
			"direccion": direccion,
		})
		if err != nil {
			utils.ErrorLog.Error("Error leyendo de Memoria", "tid", tid, "direccion", direccion, "error", err)
			continue
		}

		if datos, ok := respuesta.(map[string]interface{}); ok {
			if leido, ok := datos["valor"].(float64); ok && int(leido) != valor {
				utils.ErrorLog.Error("Lectura inconsistente", "tid", tid,
					"direccion", direccion, "esperado", valor, "leido", leido)
			}
		}

		// ceder la CPU entre accesos
		hilos.Dormir(1)
	}

	utils.InfoLog.Info("Trabajador terminado", "numero", numero, "tid", tid,
		"quantums", hilos.QuantumsDe(tid))
	trabajadoresTerminados++
	semaforoMultiprogram.Signal()
}
