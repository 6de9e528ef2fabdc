package bot

// All user-facing channel messages in one place.

const msgReportNoPower = `🔴 <b>Nuevo reporte: sin energía</b>
%s
📍 %s, %s`

const msgReportPower = `🟢 <b>Nuevo reporte: energía restablecida</b>
%s
📍 %s, %s`

const msgSectorLine = `
🏘 Sector: %s`

const msgAddressLine = `
🗺 %s`

const msgPhotoLine = `
📷 %s`
