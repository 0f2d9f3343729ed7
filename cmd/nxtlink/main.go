package main

import (
	"flag"

	"github.com/golang/glog"

	fx "github.com/robotalks/nxtlink/pkg/framework"
	"github.com/robotalks/nxtlink/pkg/robot"
	"github.com/robotalks/nxtlink/pkg/telemetry/mqtt"
)

//go-build: CGO_ENABLED=0

func init() {
	robot.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := robot.Default()
	profile, err := conf.LoadProfile()
	if err != nil {
		glog.Exitf("profile: %v", err)
	}
	r, err := conf.NewRobot(conf.Opener(), profile)
	if err != nil {
		glog.Exitf("robot: %v", err)
	}

	if conf.MQTTURL != "" {
		q, err := mqtt.NewQueueFromURL(conf.MQTTURL)
		if err != nil {
			glog.Exitf("mqtt: %v", err)
		}
		if tok := q.Connect(); tok.Wait() && tok.Error() != nil {
			glog.Exitf("mqtt connect: %v", tok.Error())
		}
		defer q.Close()
		r.Link.Observer = mqtt.NewPublisher(q)
	}

	err = fx.NewRunner().HandleSignals().Go(fx.NamedRun("robot", r)).Wait()
	if err != nil {
		glog.Exitf("robot: %v", err)
	}
}
