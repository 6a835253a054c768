package stack

// Description appears at the top of the generated template.
const Description = "Flagr feature-flag service: ECS Fargate behind an ALB with a MultiAZ PostgreSQL backend"

// Declarations maps logical names to the declared values, mirroring the
// package-level vars. The CLI hands this to the synthesizer; logical
// names here must match the variable names the discoverer reports.
func Declarations() map[string]any {
	return map[string]any{
		// network.go
		"Vpc":                                 Vpc,
		"InternetGateway":                     InternetGateway,
		"GatewayAttachment":                   GatewayAttachment,
		"PublicSubnetA":                       PublicSubnetA,
		"PublicSubnetB":                       PublicSubnetB,
		"PrivateSubnetA":                      PrivateSubnetA,
		"PrivateSubnetB":                      PrivateSubnetB,
		"NatGatewayEIP":                       NatGatewayEIP,
		"NatGateway":                          NatGateway,
		"PublicRouteTable":                    PublicRouteTable,
		"PublicRoute":                         PublicRoute,
		"PublicSubnetARouteTableAssociation":  PublicSubnetARouteTableAssociation,
		"PublicSubnetBRouteTableAssociation":  PublicSubnetBRouteTableAssociation,
		"PrivateRouteTable":                   PrivateRouteTable,
		"PrivateRoute":                        PrivateRoute,
		"PrivateSubnetARouteTableAssociation": PrivateSubnetARouteTableAssociation,
		"PrivateSubnetBRouteTableAssociation": PrivateSubnetBRouteTableAssociation,

		// security.go
		"ServiceSecurityGroup":  ServiceSecurityGroup,
		"WorkloadSecurityGroup": WorkloadSecurityGroup,
		"DatabaseSecurityGroup": DatabaseSecurityGroup,

		// secrets.go
		"DatabaseSecret": DatabaseSecret,

		// database.go
		"DatabaseName":        DatabaseName,
		"DatabaseSubnetGroup": DatabaseSubnetGroup,
		"Database":            Database,

		// cluster.go
		"Cluster":       Cluster,
		"FlagrLogGroup": FlagrLogGroup,

		// task.go
		"TaskExecutionRole": TaskExecutionRole,
		"TaskDefinition":    TaskDefinition,

		// service.go
		"FlagrService": FlagrService,

		// loadbalancer.go
		"LoadBalancer":       LoadBalancer,
		"TargetGroup":        TargetGroup,
		"HTTPListener":       HTTPListener,
		"PublicFlagrService": PublicFlagrService,

		// outputs.go
		"LoadBalancerDNS":  LoadBalancerDNS,
		"DatabaseEndpoint": DatabaseEndpoint,
		"ClusterName":      ClusterName,
		"VpcId":            VpcId,
	}
}
